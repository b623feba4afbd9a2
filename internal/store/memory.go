package store

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Memory is an in-memory Store. Modification order is tracked with a
// counter, so pruning is deterministic.
type Memory struct {
	mu    sync.Mutex
	files map[string]memFile
	seq   uint64
}

type memFile struct {
	data []byte
	seq  uint64
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string]memFile)}
}

func (m *Memory) Save(ext string, r io.Reader) (string, error) {
	return save(m, ext, r)
}

func (m *Memory) Create(name string) (io.WriteCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return &memWriter{m: m, name: name}, nil
}

func (m *Memory) Open(name string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nopCloser{bytes.NewReader(f.data)}, nil
}

func (m *Memory) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(m.files, name)
	return nil
}

// Names returns the stored names, newest first.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedLocked()
}

func (m *Memory) sortedLocked() []string {
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return m.files[names[i]].seq > m.files[names[j]].seq
	})
	return names
}

func (m *Memory) Prune(keep int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := m.sortedLocked()
	if len(names) <= keep {
		return 0, nil
	}
	for _, name := range names[max(keep, 0):] {
		delete(m.files, name)
	}
	return len(names) - max(keep, 0), nil
}

type memWriter struct {
	m    *Memory
	name string
	buf  bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Close publishes the written bytes.
func (w *memWriter) Close() error {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	w.m.seq++
	w.m.files[w.name] = memFile{data: w.buf.Bytes(), seq: w.m.seq}
	return nil
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
