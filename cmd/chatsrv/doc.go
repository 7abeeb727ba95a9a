// Package `chatsrv` implements server application for chat and file sharing over TCP.
//
// To compile chat server locally, run from package directory:
//
//	go install .
//
// Or quickly launch server with command:
//
//	go run . --port 10000 --dir server_folder
//
// Clients are identified by their TCP port. Files of the shared directory
// are listed, deleted, downloaded and uploaded by clients, see `chatcli`.
package main
