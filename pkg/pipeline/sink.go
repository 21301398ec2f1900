package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Sink receives generated artifacts. Paths are slash-separated and relative
// to the sink's root.
type Sink interface {
	Write(path string, content []byte) error
	Exists(path string) bool
	Remove(path string) error
}

// FileSink writes artifacts below a directory.
type FileSink struct {
	Dir string
}

// NewFileSink creates a sink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (s *FileSink) abs(path string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(path))
}

// Write creates or replaces the artifact at path.
func (s *FileSink) Write(path string, content []byte) error {
	full := s.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	return os.WriteFile(full, content, 0644)
}

// Exists reports whether a file exists at path.
func (s *FileSink) Exists(path string) bool {
	info, err := os.Stat(s.abs(path))
	return err == nil && !info.IsDir()
}

// Remove deletes the artifact at path and any package directories left
// empty by that. Removing a missing file is not an error.
func (s *FileSink) Remove(path string) error {
	full := s.abs(path)
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	root := filepath.Clean(s.Dir)
	for dir := filepath.Dir(full); dir != root && len(dir) > len(root); dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			break
		}
	}
	return nil
}

// MemorySink keeps artifacts in memory. It is used by tests and by callers
// that want the generated sources without touching the filesystem.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
	// Writes counts Write calls, unchanged content included.
	Writes int
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// Write stores content at path.
func (s *MemorySink) Write(path string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = append([]byte(nil), content...)
	s.Writes++
	return nil
}

// Exists reports whether path holds content.
func (s *MemorySink) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

// Remove deletes path.
func (s *MemorySink) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

// Get returns the content at path.
func (s *MemorySink) Get(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[path]
	return b, ok
}

// Paths returns the stored paths, sorted.
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
