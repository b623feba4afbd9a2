package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Disk stores files in one flat directory.
type Disk struct {
	Dir string
}

// NewDisk returns a Disk rooted at dir, creating the directory if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Disk{Dir: dir}, nil
}

func (d *Disk) path(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(d.Dir, name), nil
}

func (d *Disk) Save(ext string, r io.Reader) (string, error) {
	return save(d, ext, r)
}

func (d *Disk) Create(name string) (io.WriteCloser, error) {
	path, err := d.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (d *Disk) Open(name string) (File, error) {
	path, err := d.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (d *Disk) Remove(name string) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}

// Prune removes all but the keep most recently modified regular files.
// Files that vanish while pruning are not errors.
func (d *Disk) Prune(keep int) (int, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return 0, err
	}

	type entry struct {
		name string
		mod  time.Time
	}
	var files []entry
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, entry{name: e.Name(), mod: info.ModTime()})
	}
	if len(files) <= keep {
		return 0, nil
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].mod.Equal(files[j].mod) {
			return files[i].name > files[j].name
		}
		return files[i].mod.After(files[j].mod)
	})

	removed := 0
	var errs []error
	for _, f := range files[max(keep, 0):] {
		err := os.Remove(filepath.Join(d.Dir, f.name))
		switch {
		case err == nil:
			removed++
		case !errors.Is(err, fs.ErrNotExist):
			errs = append(errs, err)
		}
	}
	return removed, errors.Join(errs...)
}

// Clear removes every regular file in the directory.
func (d *Disk) Clear() error {
	_, err := d.Prune(0)
	return err
}
