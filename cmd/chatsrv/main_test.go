package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtask/filechat/internal/chat/storage"
)

type lines struct {
	mu   sync.Mutex
	text []string
}

func (l *lines) Println(v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = append(l.text, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func (l *lines) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.text, "\n")
}

func TestWatch_failureIsLogged(test *testing.T) {
	files, _, err := storage.Open(filepath.Join(test.TempDir(), "server_folder"))
	require.NoError(test, err)
	require.NoError(test, os.Remove(files.Root()))

	logger := &lines{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		watch(context.Background(), files, logger)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		test.Fatal("watch has not returned on missing directory")
	}
	assert.Contains(test, logger.String(), "ERR Watcher stopped:")
}

func TestWatch_untilDone(test *testing.T) {
	files, _, err := storage.Open(filepath.Join(test.TempDir(), "server_folder"))
	require.NoError(test, err)

	logger := &lines{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		watch(ctx, files, logger)
	}()
	require.Eventually(test, func() bool {
		os.WriteFile(filepath.Join(files.Root(), "new.txt"), []byte("x"), 0644)
		return strings.Contains(logger.String(), "Shared file new.txt")
	}, 2*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		test.Fatal("watch has not returned after cancel")
	}
	assert.NotContains(test, logger.String(), "ERR")
}
