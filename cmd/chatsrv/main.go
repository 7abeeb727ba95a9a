package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wtask/filechat/internal/chat"
	"github.com/wtask/filechat/internal/chat/storage"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, config Configuration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := stdlog.New(os.Stdout, "chatsrv:"+Version+" ", stdlog.Ldate|stdlog.Ltime)
	logger.Printf("Started with config: %+v", config)

	files, created, err := storage.Open(config.Directory)
	if err != nil {
		logger.Println("ERR", "Unable to prepare directory:", err)
		return err
	}
	if created {
		logger.Println("Directory created:", files.Root())
	} else {
		logger.Println("The directory already exists:", files.Root())
	}

	listener, err := net.Listen("tcp", config.Address())
	if err != nil {
		logger.Println("ERR", "Unable to listen TCP:", err)
		return err
	}

	var trace chat.Logger
	if config.Verbose {
		trace = logger
	}
	server, err := chat.NewServer(
		chat.DefaultBroker(files, config.ChunkSize, logger, trace),
		chat.WithLogger(logger),
	)
	if err != nil {
		logger.Println("ERR", "Can't start chat server:", err)
		listener.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return server.Serve(listener)
	})
	if config.Watch {
		group.Go(func() error {
			watch(ctx, files, logger)
			return nil
		})
	}
	group.Go(func() error {
		<-ctx.Done()
		logger.Println("Got stop signal")
		logger.Println("Chat server stopped in", server.Shutdown(10*time.Second), "bye")
		return nil
	})
	logger.Println("Chat server has started.")

	if err := group.Wait(); err != nil {
		return fmt.Errorf("chat server failed: %w", err)
	}
	return nil
}

// watch - logs changes of shared directory until ctx is done.
// Watching is optional, so its failure is logged only and the chat keeps running.
func watch(ctx context.Context, files *storage.Dir, logger chat.Logger) {
	err := files.Watch(ctx,
		func(e storage.Event) {
			logger.Println("Shared file", e.Name, e.Change)
		},
		func(err error) {
			logger.Println("ERR", "Watcher:", err)
		},
	)
	if err != nil {
		logger.Println("ERR", "Watcher stopped:", err)
	}
}
