// Package store persists uploaded and generated files for the stamping API.
//
// Types:
//   - Store: Saves bytes under a generated unique name and opens them again.
//   - Disk: Store backed by a single working directory.
//   - Memory: Store kept in memory, used by tests.
//   - Retention: Best-effort policy keeping only the newest files of a Store.
//
// Expected outputs:
// - Names are unique (UUID plus sanitized extension)
// - Names never escape the store (no path separators)
// - Eviction failures are logged, never returned to request handlers
package store

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"go-stamppdf/internal/utils"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

// File is an opened stored file.
type File interface {
	io.ReadSeeker
	io.Closer
}

// Store is the file persistence capability handed to the HTTP handlers.
type Store interface {
	// Save persists r under a new unique name ending in ext and returns the name.
	Save(ext string, r io.Reader) (string, error)
	// Create opens name for writing. The file is complete once Close returns nil.
	Create(name string) (io.WriteCloser, error)
	Open(name string) (File, error)
	Remove(name string) error
}

// Pruner removes all but the keep most recently modified files.
type Pruner interface {
	Prune(keep int) (int, error)
}

func newName(ext string) string {
	return utils.GenerateUUID() + utils.SanitizeExt(ext)
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// save is the Save implementation shared by the stores.
func save(s Store, ext string, r io.Reader) (string, error) {
	name := newName(ext)
	w, err := s.Create(name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		discard(s, name)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := w.Close(); err != nil {
		discard(s, name)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return name, nil
}

// discard removes a partially written file. Failures are only logged.
func discard(s Store, name string) {
	if err := s.Remove(name); err != nil && !errors.Is(err, ErrNotFound) {
		log.Printf("[ERROR] removing partial file %s: %v", name, err)
	}
}
