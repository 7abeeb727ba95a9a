package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wtask/filechat/internal/chat/message"
	"github.com/wtask/filechat/internal/chat/storage"
)

// Texts of server answers.
const (
	TextCommandNotFound = "Command not found"
	TextWrongRequest    = "There is something wrong in your request"
	TextEmptyTarget     = "Client ID or message is empty"
	TextEmptyMessage    = "Empty messages can not be sent"
	TextInvalidTarget   = "User ID invalid"
	TextTargetOffline   = "The client is not logged now"
	TextOnlyOne         = "You are the only one logged now"
	TextFileNotFound    = "file not found"
	TextNoFiles         = "There are no files on the server"
	TextListFailed      = "Error when trying to list the files"
	TextDeleteFailed    = "Error when trying to delete the file"
	TextFileReceived    = "file received"
	TextReceiveFailed   = "error while receiving the file"
)

// Files - server directory as seen by commands.
type Files interface {
	Stat(name string) (storage.FileInfo, error)
	List() ([]storage.FileInfo, error)
	Delete(name string) error
}

// Request - decoded command of a client.
type Request struct {
	Kind Kind
	// Port - ID of issuing client.
	Port    int
	Args    string
	HasArgs bool
}

// Strategy - handler bound to single command kind.
// Strategies hold no state, they only read or change files.
type Strategy func(files Files, req Request) Instruction

var strategies = [kindCount]Strategy{
	KindHelp:       help,
	KindListFiles:  listFiles,
	KindDeleteFile: deleteFile,
	KindDownload:   download,
	KindUpload:     receiveFile,
	KindPrivate:    private,
	KindBroadcast:  broadcast,
	KindConfirm:    sendFile,
	KindFileInfo:   receiveFile,
}

// Execute - runs strategy of the requested command.
// Unknown command or command without strategy (exit) produces "command not found" answer.
func Execute(files Files, req Request) Instruction {
	if req.Kind <= 0 || req.Kind >= kindCount || strategies[req.Kind] == nil {
		return NotFound()
	}
	return strategies[req.Kind](files, req)
}

// NotFound - answer to unknown command.
func NotFound() Instruction {
	return Failure(TextCommandNotFound, nil)
}

var commandList = []string{
	KeywordPrivate + "....: Private message",
	KeywordBroadcast + "...: Broadcast message",
	KeywordListFiles + "..: Files on the server",
	KeywordDeleteFile + "...: Delete a file on the server",
	KeywordDownload + "..: Download from the server",
	KeywordUpload + "....: Upload to the server",
	KeywordExit + "...: Log out",
}

// CommandList - help text lines.
func CommandList() []string {
	return append([]string{}, commandList...)
}

func help(_ Files, _ Request) Instruction {
	return Self(message.Multi(commandList))
}

func private(_ Files, req Request) Instruction {
	target, text, ok := strings.Cut(req.Args, message.Delimiter)
	target = strings.TrimSpace(target)
	if !req.HasArgs || !ok || target == "" {
		return Failure(TextEmptyTarget, nil)
	}
	text = message.Normalize(text)
	if strings.TrimSpace(text) == "" {
		return Failure(TextEmptyMessage, nil)
	}
	return Instruction{
		Route:  RoutePrivate,
		Target: target,
		Data:   message.Single(fmt.Sprintf("(%d)> %s", req.Port, text)),
	}
}

func broadcast(_ Files, req Request) Instruction {
	text := message.Normalize(req.Args)
	if strings.TrimSpace(text) == "" {
		return Failure(TextEmptyMessage, nil)
	}
	return Instruction{
		Route: RouteBroadcast,
		Data:  message.Single(fmt.Sprintf("(%d)BROAD> %s", req.Port, text)),
	}
}

func listFiles(files Files, _ Request) Instruction {
	list, err := files.List()
	if err != nil {
		return Failure(TextListFailed, err)
	}
	if len(list) == 0 {
		return Failure(TextNoFiles, nil)
	}
	lines := make([]string, 0, len(list))
	for _, f := range list {
		lines = append(lines, f.String())
	}
	return Self(message.Multi(lines))
}

func deleteFile(files Files, req Request) Instruction {
	err := files.Delete(req.Args)
	switch {
	case err == nil:
		return Self(message.Server(fmt.Sprintf("File %s deleted", req.Args)))
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidName):
		return Failure(TextFileNotFound, err)
	default:
		return Failure(TextDeleteFailed, err)
	}
}

func download(files Files, req Request) Instruction {
	info, err := files.Stat(req.Args)
	if err != nil {
		return Failure(TextFileNotFound, err)
	}
	file := message.FileDescriptor{Name: info.Name, Size: info.Size}
	return Instruction{
		Route: RouteSelf,
		Data:  message.New(message.TagConfirm, file.String()),
		File:  file,
	}
}

func sendFile(_ Files, req Request) Instruction {
	file, err := message.ParseDescriptor(req.Args)
	if err != nil {
		return Failure(TextWrongRequest, err)
	}
	return Instruction{Route: RouteFileSend, File: file}
}

func receiveFile(_ Files, req Request) Instruction {
	file, err := message.ParseDescriptor(req.Args)
	if err != nil {
		return Failure(TextWrongRequest, err)
	}
	return Instruction{Route: RouteFileReceive, File: file}
}
