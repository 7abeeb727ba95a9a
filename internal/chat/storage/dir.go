package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ListBatch - number of directory entries processed at once while listing.
const ListBatch = 10

// FileInfo - name and size of stored file.
type FileInfo struct {
	Name string
	Size int64
}

func (fi FileInfo) String() string {
	return fmt.Sprintf("%d - %s", fi.Size, fi.Name)
}

// Dir - flat directory of files shared over chat.
type Dir struct {
	root string
}

// Open - prepares directory, creates it if absent.
// Reports whether directory was created, existing directory is not an error.
func Open(root string) (dir *Dir, created bool, err error) {
	if root == "" {
		return nil, false, errors.New("storage.Open: root is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, false, fmt.Errorf("storage.Open: %w", err)
	}
	err = os.Mkdir(abs, 0755)
	switch {
	case err == nil:
		created = true
	case errors.Is(err, os.ErrExist):
		info, statErr := os.Stat(abs)
		if statErr != nil {
			return nil, false, fmt.Errorf("storage.Open: %w", statErr)
		}
		if !info.IsDir() {
			return nil, false, fmt.Errorf("storage.Open: %s is not a directory", abs)
		}
	default:
		return nil, false, fmt.Errorf("storage.Open: %w", err)
	}
	return &Dir{root: abs}, created, nil
}

// Root - absolute path of directory.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(d.root, name), nil
}

// Stat - returns info of regular file.
func (d *Dir) Stat(name string) (FileInfo, error) {
	path, err := d.path(name)
	if err != nil {
		return FileInfo{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileInfo{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return FileInfo{}, err
	}
	if !info.Mode().IsRegular() {
		return FileInfo{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return FileInfo{Name: name, Size: info.Size()}, nil
}

// List - returns regular files with sizes in name order.
// Entries are resolved by batches of ListBatch; entries vanished meanwhile are skipped.
func (d *Dir) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("storage.List: %w", err)
	}
	files := make([]FileInfo, 0, len(entries))
	for from := 0; from < len(entries); from += ListBatch {
		to := from + ListBatch
		if to > len(entries) {
			to = len(entries)
		}
		files = append(files, d.resolve(entries[from:to])...)
	}
	return files, nil
}

func (d *Dir) resolve(batch []os.DirEntry) []FileInfo {
	files := make([]FileInfo, 0, len(batch))
	for _, entry := range batch {
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, FileInfo{Name: entry.Name(), Size: info.Size()})
	}
	return files
}

// Delete - removes file.
func (d *Dir) Delete(name string) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return err
	}
	return nil
}

// Open - opens regular file for reading.
func (d *Dir) Open(name string) (*os.File, FileInfo, error) {
	info, err := d.Stat(name)
	if err != nil {
		return nil, FileInfo{}, err
	}
	path, _ := d.path(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, FileInfo{}, err
	}
	return f, info, nil
}

// Create - creates or truncates file for writing.
func (d *Dir) Create(name string) (*os.File, error) {
	path, err := d.path(name)
	if err != nil {
		return nil, err
	}
	return os.Create(path)
}
