package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type (
	// Configuration - client configuration
	Configuration struct {
		// IPAddress - server address
		IPAddress string
		// Port - server port
		Port uint
		// Directory - local files to upload and downloaded files
		Directory string
	}
)

// Address - TCP address of the server.
func (c Configuration) Address() string {
	return net.JoinHostPort(c.IPAddress, strconv.FormatUint(uint64(c.Port), 10))
}

var (
	// Config - current configuration of the client
	Config = Configuration{
		IPAddress: "localhost",
		Port:      10000,
		Directory: "client_folder",
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Version - app version fingerprint
	Version = "1.0.0"
)

var separator = strings.Repeat("-", 50)

var rootCmd = &cobra.Command{
	Use:     BinaryName,
	Short:   "Connect to chat and file sharing server",
	Long:    "Connect to chat and file sharing server. Type /? to list server commands, /exit to log out.",
	Version: Version,
	Args:    cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if Config.Port == 0 || Config.Port > 65535 {
			return fmt.Errorf("port value should be in range 1..65535, got %d", Config.Port)
		}
		if strings.TrimSpace(Config.Directory) == "" {
			return fmt.Errorf("dir value should not be empty")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), Config, os.Stdin, os.Stdout)
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&Config.IPAddress, "ip", Config.IPAddress, "Server address")
	flags.UintVar(&Config.Port, "port", Config.Port, "Server port")
	flags.StringVar(&Config.Directory, "dir", Config.Directory, "Directory of local files, created if absent")

	rootCmd.SetVersionTemplate(fmt.Sprintf("%s v%s\n", BinaryName, Version))
}
