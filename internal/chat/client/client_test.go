package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtask/filechat/internal/chat/storage"
)

// recordingDisplay - keeps everything shown to the user.
type recordingDisplay struct {
	mu       sync.Mutex
	shown    []string
	progress map[string]int64
	errs     []error
}

func (d *recordingDisplay) Lines(lines []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown = append(d.shown, lines...)
}

func (d *recordingDisplay) Line(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown = append(d.shown, text)
}

func (d *recordingDisplay) Progress(label string, done, total int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.progress == nil {
		d.progress = map[string]int64{}
	}
	d.progress[label] = done
}

func (d *recordingDisplay) Error(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs = append(d.errs, err)
}

func clientDir(test *testing.T) *storage.Dir {
	dir, _, err := storage.Open(filepath.Join(test.TempDir(), "client_folder"))
	require.NoError(test, err)
	return dir
}

// link - client over one side of in-memory connection, another side plays the server.
func link(test *testing.T, dir *storage.Dir, options ...clientOption) (*Client, net.Conn) {
	local, remote := net.Pipe()
	c, err := New(local, dir, options...)
	require.NoError(test, err)
	test.Cleanup(func() {
		c.Close()
		remote.Close()
	})
	return c, remote
}

func readExactly(test *testing.T, conn net.Conn, size int) string {
	test.Helper()
	require.NoError(test, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, size)
	_, err := io.ReadFull(conn, buf)
	require.NoError(test, err)
	return string(buf)
}

func write(test *testing.T, conn net.Conn, raw string) {
	test.Helper()
	require.NoError(test, conn.SetWriteDeadline(time.Now().Add(2*time.Second)))
	_, err := conn.Write([]byte(raw))
	require.NoError(test, err)
}

func TestNew_ErrorCase(test *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	defer remote.Close()
	dir := clientDir(test)

	_, err := New(nil, dir)
	assert.Error(test, err)
	_, err = New(local, nil)
	assert.Error(test, err)
	_, err = New(local, dir, WithDisplay(nil))
	assert.Error(test, err)
	_, err = New(local, dir, WithChunkSize(0))
	assert.Error(test, err)
}

func TestClient_Send(test *testing.T) {
	dir := clientDir(test)
	require.NoError(test, os.WriteFile(filepath.Join(dir.Root(), "notes.txt"), []byte("12345"), 0644))
	c, server := link(test, dir)

	cases := []struct {
		request, wire string
	}{
		{"/files", "/files"},
		{"/msg:5000:hi", "/msg:5000:hi"},
		{"/upl:notes.txt", "<file_inf>:notes.txt||5"},
	}
	for _, tc := range cases {
		sent := make(chan error, 1)
		go func() { sent <- c.Send(tc.request) }()
		assert.Equal(test, tc.wire, readExactly(test, server, len(tc.wire)))
		assert.NoError(test, <-sent)
	}

	err := c.Send("/upl:absent.txt")
	assert.ErrorIs(test, err, ErrFileNotFound)
	err = c.Send("/upl")
	assert.ErrorIs(test, err, ErrFileNotFound)
}

func TestClient_Receive(test *testing.T) {
	dir := clientDir(test)
	require.NoError(test, os.WriteFile(filepath.Join(dir.Root(), "up.txt"), []byte("12345"), 0644))
	display := &recordingDisplay{}
	c, server := link(test, dir, WithDisplay(display), WithChunkSize(2))

	received := make(chan error, 1)
	go func() { received <- c.Receive(context.Background()) }()

	write(test, server, "<mult>:first<<SEP>>second")
	write(test, server, "<single>:SERVER: hello")
	write(test, server, "<single>")
	write(test, server, "<bogus>:x")

	write(test, server, "<confirm>:down.txt||5")
	assert.Equal(test, "<conf>:down.txt||5", readExactly(test, server, len("<conf>:down.txt||5")))
	write(test, server, "hel")
	write(test, server, "lo")

	write(test, server, "<send_file>:up.txt||5")
	assert.Equal(test, "12345", readExactly(test, server, 5))

	write(test, server, "<close>")
	select {
	case err := <-received:
		assert.ErrorIs(test, err, ErrClosed)
	case <-time.After(2 * time.Second):
		test.Fatal("Receive has not returned")
	}

	data, err := os.ReadFile(filepath.Join(dir.Root(), "down.txt"))
	require.NoError(test, err)
	assert.Equal(test, "hello", string(data))

	display.mu.Lock()
	defer display.mu.Unlock()
	assert.Equal(test, []string{"first", "second", "SERVER: hello", "File received (down.txt)"}, display.shown)
	assert.Equal(test, map[string]int64{LabelReceived: 5, LabelSent: 5}, display.progress)
	require.Len(test, display.errs, 1)
	assert.ErrorIs(test, display.errs[0], ErrUnknownTag)
}

func TestClient_Receive_downloadFailureKeepsSession(test *testing.T) {
	dir := clientDir(test)
	display := &recordingDisplay{}
	c, server := link(test, dir, WithDisplay(display))

	received := make(chan error, 1)
	go func() { received <- c.Receive(context.Background()) }()

	// file can not be created under such name, bytes are consumed anyway
	write(test, server, "<confirm>:..||3")
	assert.Equal(test, "<conf>:..||3", readExactly(test, server, len("<conf>:..||3")))
	write(test, server, "abc")
	write(test, server, "<confirm>:broken")
	write(test, server, "<single>:still here")
	write(test, server, "<close>")
	assert.ErrorIs(test, <-received, ErrClosed)

	display.mu.Lock()
	defer display.mu.Unlock()
	assert.Equal(test, []string{"still here"}, display.shown)
	require.Len(test, display.errs, 2)
	assert.ErrorIs(test, display.errs[0], storage.ErrInvalidName)
}

func TestClient_Receive_uploadOfMissingFile(test *testing.T) {
	c, server := link(test, clientDir(test))
	received := make(chan error, 1)
	go func() { received <- c.Receive(context.Background()) }()
	write(test, server, "<send_file>:gone.txt||10")
	assert.ErrorIs(test, <-received, ErrFileNotFound)
}

func TestClient_Receive_disconnect(test *testing.T) {
	c, server := link(test, clientDir(test))
	received := make(chan error, 1)
	go func() { received <- c.Receive(context.Background()) }()
	server.Close()
	assert.ErrorIs(test, <-received, ErrDisconnected)
}

func TestClient_Receive_cancel(test *testing.T) {
	c, _ := link(test, clientDir(test))
	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan error, 1)
	go func() { received <- c.Receive(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-received:
		assert.True(test, errors.Is(err, context.Canceled), fmt.Sprint(err))
	case <-time.After(2 * time.Second):
		test.Fatal("Receive is not cancelled")
	}
}

func answered(c *Client, wait time.Duration) bool {
	select {
	case <-c.Answered():
		return true
	case <-time.After(wait):
		return false
	}
}

func TestClient_Answered(test *testing.T) {
	dir := clientDir(test)
	require.NoError(test, os.WriteFile(filepath.Join(dir.Root(), "up.txt"), []byte("12345"), 0644))
	display := &recordingDisplay{}
	c, server := link(test, dir, WithDisplay(display), WithChunkSize(2))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Receive(ctx)

	// chat message of another client is left unread by the user loop
	write(test, server, "<single>:(5000)> hi")
	require.Eventually(test, func() bool { return len(c.answered) == 1 }, 2*time.Second, 10*time.Millisecond)

	// new request forgets stale signal
	go c.Send("/files")
	assert.Equal(test, "/files", readExactly(test, server, len("/files")))
	assert.False(test, answered(c, 50*time.Millisecond))
	write(test, server, "<single>:SERVER: There are no files on the server")
	assert.True(test, answered(c, 2*time.Second))

	// download is answered when the stream is over
	write(test, server, "<confirm>:down.txt||4")
	assert.Equal(test, "<conf>:down.txt||4", readExactly(test, server, len("<conf>:down.txt||4")))
	assert.True(test, c.Streaming())
	assert.False(test, answered(c, 50*time.Millisecond))
	write(test, server, "data")
	assert.True(test, answered(c, 2*time.Second))
	assert.False(test, c.Streaming())

	// upload is answered by status after the stream
	go c.Send("/upl:up.txt")
	assert.Equal(test, "<file_inf>:up.txt||5", readExactly(test, server, len("<file_inf>:up.txt||5")))
	write(test, server, "<send_file>:up.txt||5")
	assert.Equal(test, "12345", readExactly(test, server, 5))
	assert.False(test, answered(c, 50*time.Millisecond))
	write(test, server, "<single>:SERVER: file received")
	assert.True(test, answered(c, 2*time.Second))
}
