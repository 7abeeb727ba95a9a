package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wtask/filechat/internal/chat/transfer"
)

type (
	// Configuration - server configuration
	Configuration struct {
		// IPAddress - bind the address
		IPAddress string
		// Port - bind the port
		Port uint
		// Directory - shared files of the server
		Directory string
		// ChunkSize - size of single read/write while streaming files
		ChunkSize int
		// Verbose - log every processed command
		Verbose bool
		// Watch - log changes of shared directory
		Watch bool
	}
)

// Address - listen address of configured server.
func (c Configuration) Address() string {
	return net.JoinHostPort(c.IPAddress, strconv.FormatUint(uint64(c.Port), 10))
}

// Validate - checks configuration is usable.
func (c Configuration) Validate() error {
	switch {
	case c.Port == 0 || c.Port > 65535:
		return fmt.Errorf("port value should be in range 1..65535, got %d", c.Port)
	case strings.TrimSpace(c.Directory) == "":
		return fmt.Errorf("dir value should not be empty")
	case c.ChunkSize <= 0:
		return fmt.Errorf("chunk-size value should be greater 0, got %d", c.ChunkSize)
	}
	return nil
}

var (
	// Config - current configuration of the server
	Config = Configuration{
		IPAddress: "localhost",
		Port:      10000,
		Directory: "server_folder",
		ChunkSize: transfer.DefaultChunkSize,
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Version - app version fingerprint
	Version = "1.0.0"
)

var rootCmd = &cobra.Command{
	Use:     BinaryName,
	Short:   "Launch chat and file sharing server over TCP",
	Version: Version,
	Args:    cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return Config.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), "TCP chat server is launching, press Ctrl-C to stop...\n")
		return run(cmd.Context(), Config)
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&Config.IPAddress, "ip", Config.IPAddress, "Listen address")
	flags.UintVar(&Config.Port, "port", Config.Port, "Listen port")
	flags.StringVar(&Config.Directory, "dir", Config.Directory, "Directory of shared files, created if absent")
	flags.IntVar(&Config.ChunkSize, "chunk-size", Config.ChunkSize, "Size in bytes of single read/write while streaming files")
	flags.BoolVarP(&Config.Verbose, "verbose", "v", false, "Log every processed command")
	flags.BoolVar(&Config.Watch, "watch", false, "Log changes of shared directory")

	rootCmd.SetVersionTemplate(fmt.Sprintf("%s v%s\n", BinaryName, Version))
}
