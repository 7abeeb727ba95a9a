package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Change - kind of directory change.
type Change int

const (
	_ Change = iota
	// ChangeCreated - file has appeared.
	ChangeCreated
	// ChangeWritten - file content has changed.
	ChangeWritten
	// ChangeRemoved - file has gone (removed or renamed).
	ChangeRemoved
)

func (c Change) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeWritten:
		return "written"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown change"
	}
}

// Event - single change of directory content.
type Event struct {
	Name   string
	Change Change
}

// Watch - reports directory changes to notify until ctx is done.
// Watcher failures are passed to onError if it is set, watching continues.
func (d *Dir) Watch(ctx context.Context, notify func(Event), onError func(error)) error {
	if notify == nil {
		return fmt.Errorf("storage.Watch: notify func is nil")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("storage.Watch: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(d.root); err != nil {
		return fmt.Errorf("storage.Watch: %s: %w", d.root, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			change := translate(event.Op)
			if change == 0 {
				continue
			}
			notify(Event{Name: filepath.Base(event.Name), Change: change})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func translate(op fsnotify.Op) Change {
	switch {
	case op.Has(fsnotify.Create):
		return ChangeCreated
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return ChangeRemoved
	case op.Has(fsnotify.Write):
		return ChangeWritten
	default:
		// chmod
		return 0
	}
}
