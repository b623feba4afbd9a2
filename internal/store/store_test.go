package store

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

func readAll(t *testing.T, s Store, name string) string {
	t.Helper()
	f, err := s.Open(name)
	if err != nil {
		t.Fatalf("Open(%q): %v", name, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll(%q): %v", name, err)
	}
	return string(b)
}

func stores(t *testing.T) map[string]Store {
	disk, err := NewDisk(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	return map[string]Store{"disk": disk, "memory": NewMemory()}
}

func TestSaveOpen(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a, err := s.Save(".PDF", strings.NewReader("first"))
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			b, err := s.Save("sig.png", strings.NewReader("second"))
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if a == b {
				t.Fatal("expected unique names")
			}
			if !strings.HasSuffix(a, ".pdf") || !strings.HasSuffix(b, ".png") {
				t.Errorf("unexpected names %q, %q", a, b)
			}
			if got := readAll(t, s, a); got != "first" {
				t.Errorf("got %q, want %q", got, "first")
			}
			if got := readAll(t, s, b); got != "second" {
				t.Errorf("got %q, want %q", got, "second")
			}
		})
	}
}

func TestOpenMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Open("missing.pdf")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestRejectsPathNames(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", "..", "../x.pdf", "a/b.pdf", `a\b.pdf`} {
				if _, err := s.Create(bad); !errors.Is(err, ErrInvalidName) {
					t.Errorf("Create(%q): expected ErrInvalidName, got %v", bad, err)
				}
				if _, err := s.Open(bad); !errors.Is(err, ErrInvalidName) && !errors.Is(err, ErrNotFound) {
					t.Errorf("Open(%q): unexpected error %v", bad, err)
				}
			}
		})
	}
}

func TestDiskPruneKeepsNewest(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	base := time.Now().Add(-time.Hour)
	var names []string
	for i := 0; i < 15; i++ {
		name, err := d.Save(".pdf", strings.NewReader("x"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		mod := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(filepath.Join(d.Dir, name), mod, mod); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
		names = append(names, name)
	}
	if err := os.Mkdir(filepath.Join(d.Dir, "subdir"), 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	removed, err := d.Prune(10)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 5 {
		t.Errorf("expected 5 files removed, got %d", removed)
	}

	entries, _ := os.ReadDir(d.Dir)
	var left []string
	for _, e := range entries {
		if !e.IsDir() {
			left = append(left, e.Name())
		}
	}
	want := append([]string(nil), names[5:]...)
	sort.Strings(left)
	sort.Strings(want)
	if strings.Join(left, ",") != strings.Join(want, ",") {
		t.Errorf("kept %v, want %v", left, want)
	}
	if _, err := os.Stat(filepath.Join(d.Dir, "subdir")); err != nil {
		t.Errorf("directories must not be pruned: %v", err)
	}
}

func TestDiskClear(t *testing.T) {
	d, _ := NewDisk(t.TempDir())
	for i := 0; i < 3; i++ {
		d.Save(".png", strings.NewReader("x"))
	}
	if err := d.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, _ := os.ReadDir(d.Dir)
	if len(entries) != 0 {
		t.Errorf("expected empty directory, got %d entries", len(entries))
	}
}

func TestMemoryPruneKeepsNewest(t *testing.T) {
	m := NewMemory()
	var names []string
	for i := 0; i < 12; i++ {
		name, _ := m.Save(".pdf", strings.NewReader("x"))
		names = append(names, name)
	}
	removed, err := m.Prune(10)
	if err != nil || removed != 2 {
		t.Fatalf("Prune = %d, %v; want 2, nil", removed, err)
	}
	got := m.Names()
	if len(got) != 10 || got[0] != names[11] || got[9] != names[2] {
		t.Errorf("unexpected survivors %v", got)
	}
}

type failingPruner struct {
	calls int
}

func (p *failingPruner) Prune(keep int) (int, error) {
	p.calls++
	return 0, errors.New("disk on fire")
}

func TestRetentionSwallowsErrors(t *testing.T) {
	p := &failingPruner{}
	r := NewRetention(p, 0)
	if r.Keep != DefaultKeep {
		t.Errorf("expected default keep %d, got %d", DefaultKeep, r.Keep)
	}
	r.Enforce()
	if p.calls != 1 {
		t.Errorf("expected one prune, got %d", p.calls)
	}
}

func TestRetentionEnforce(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 14; i++ {
		m.Save(".pdf", strings.NewReader("x"))
	}
	NewRetention(m, 10).Enforce()
	if n := len(m.Names()); n != 10 {
		t.Errorf("expected 10 files, got %d", n)
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestSaveRemovesPartialFile(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			logs := captureLog(t)
			if _, err := s.Save(".pdf", errReader{}); err == nil {
				t.Fatal("expected an error from a failing reader")
			}
			var left int
			switch s := s.(type) {
			case *Disk:
				entries, err := os.ReadDir(s.Dir)
				if err != nil {
					t.Fatalf("ReadDir: %v", err)
				}
				left = len(entries)
			case *Memory:
				left = len(s.Names())
			}
			if left != 0 {
				t.Errorf("expected partial file to be removed, %d left", left)
			}
			if logs.Len() != 0 {
				t.Errorf("unexpected log output %q", logs.String())
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("short write") }
func (failingWriter) Close() error              { return nil }

// readOnlyStore accepts writes that fail and refuses removals.
type readOnlyStore struct {
	Store
}

func (readOnlyStore) Create(string) (io.WriteCloser, error) { return failingWriter{}, nil }
func (readOnlyStore) Remove(string) error                   { return errors.New("read-only file system") }

func TestSaveLogsFailedRemoval(t *testing.T) {
	logs := captureLog(t)
	_, err := save(readOnlyStore{NewMemory()}, ".pdf", strings.NewReader("data"))
	if err == nil {
		t.Fatal("expected an error from a failing writer")
	}
	if !strings.Contains(logs.String(), "[ERROR] removing partial file") ||
		!strings.Contains(logs.String(), "read-only file system") {
		t.Errorf("expected removal failure to be logged, got %q", logs.String())
	}
}

func TestDiskRemoveMissing(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	if err := d.Remove("gone.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
