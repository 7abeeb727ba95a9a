package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/wtask/filechat/internal/chat/client"
	"github.com/wtask/filechat/internal/chat/storage"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// answerTimeout - how long to wait for an answer before the next request,
// some requests are not answered at all.
const answerTimeout = 500 * time.Millisecond

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func run(ctx context.Context, config Configuration, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	files, created, err := storage.Open(config.Directory)
	if err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if created {
		fmt.Fprintln(out, "Directory created")
	} else {
		fmt.Fprintln(out, "The directory already exists")
	}

	display := newConsole(out, isTerminal(out))
	c, err := client.Dial(config.Address(), files, client.WithDisplay(display))
	if err != nil {
		return err
	}
	defer c.Close()

	received := make(chan error, 1)
	go func() {
		received <- c.Receive(ctx)
	}()

	requests := make(chan string)
	go func() {
		defer close(requests)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case requests <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	// finished - result of session once the receiver has stopped
	finished := func(err error) error {
		if errors.Is(err, client.ErrClosed) {
			return nil
		}
		return err
	}
	// await - holds next request until the answer is handled, the stream is over or timeout elapses
	await := func() (bool, error) {
		timer := time.NewTimer(answerTimeout)
		defer timer.Stop()
		for {
			select {
			case <-c.Answered():
				return false, nil
			case err := <-received:
				return true, finished(err)
			case <-timer.C:
				if !c.Streaming() {
					return false, nil
				}
				timer.Reset(answerTimeout)
			}
		}
	}

	display.Prompt()
	for {
		select {
		case err := <-received:
			return finished(err)
		case request, ok := <-requests:
			if !ok {
				// input is over, log out politely and wait for confirmation
				requests = nil
				request = "/exit"
			}
			if request == "" {
				display.Prompt()
				continue
			}
			err := c.Send(request)
			switch {
			case errors.Is(err, client.ErrFileNotFound):
				display.Error(err)
			case err != nil:
				return err
			default:
				if done, err := await(); done {
					return err
				}
			}
			if requests != nil {
				display.Prompt()
			}
		}
	}
}
