package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// console - prints server answers for human, progress is redrawn in place on terminals only.
type console struct {
	mu  sync.Mutex
	out io.Writer
	tty bool
	// redraw - limits progress updates, the final one is always shown
	redraw *rate.Limiter
}

func newConsole(out io.Writer, tty bool) *console {
	return &console{
		out:    out,
		tty:    tty,
		redraw: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
}

func (c *console) Lines(lines []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range lines {
		fmt.Fprintln(c.out, l)
	}
}

func (c *console) Line(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n%s\n", text)
}

func (c *console) Progress(label string, done, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.tty:
		if done < total && !c.redraw.Allow() {
			return
		}
		fmt.Fprintf(c.out, "\r%s: %d/%d", label, done, total)
		if done >= total {
			fmt.Fprintln(c.out)
		}
	case done >= total:
		fmt.Fprintf(c.out, "%s: %d/%d\n", label, done, total)
	}
}

func (c *console) Error(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "ERROR: %v\n", err)
}

func (c *console) Prompt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s\n>", separator)
}
