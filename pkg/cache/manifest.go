package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Entry is the manifest record of one written artifact.
type Entry struct {
	Fingerprint string   `json:"fingerprint"`
	Sources     []string `json:"sources,omitempty"`
}

// Manifest lists the artifacts one run wrote into an output directory,
// keyed by slash-separated path relative to that directory.
// Record is safe for concurrent use.
type Manifest struct {
	RunID     string           `json:"run_id"`
	Artifacts map[string]Entry `json:"artifacts"`

	mu sync.Mutex
}

// NewManifest creates an empty manifest for a run.
func NewManifest(runID string) *Manifest {
	return &Manifest{RunID: runID, Artifacts: make(map[string]Entry)}
}

// LoadManifest reads the manifest stored under key. A missing manifest
// yields an empty one and found == false.
func LoadManifest(ctx context.Context, c Cache, key string) (m *Manifest, found bool, err error) {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !hit {
		return NewManifest(""), false, nil
	}

	m = NewManifest("")
	if err := json.Unmarshal(data, m); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorruptManifest, err)
	}
	if m.Artifacts == nil {
		m.Artifacts = make(map[string]Entry)
	}
	for path := range m.Artifacts {
		if !safePath(path) {
			return nil, false, fmt.Errorf("%w: %q", ErrUnsafePath, path)
		}
	}
	return m, true, nil
}

// Save stores the manifest under key.
func (m *Manifest) Save(ctx context.Context, c Cache, key string) error {
	m.mu.Lock()
	data, err := json.Marshal(m)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, TTLManifest)
}

// Record adds or replaces the entry of path.
func (m *Manifest) Record(path, fingerprint string, sources []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Artifacts[path] = Entry{Fingerprint: fingerprint, Sources: sources}
}

// Unchanged reports whether path was recorded with the same fingerprint.
func (m *Manifest) Unchanged(path, fingerprint string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Artifacts[path]
	return ok && e.Fingerprint == fingerprint
}

// Paths returns the recorded paths, sorted.
func (m *Manifest) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Artifacts))
	for p := range m.Artifacts {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Stale returns the paths recorded in m but not in next, sorted.
func (m *Manifest) Stale(next *Manifest) []string {
	var out []string
	for _, p := range m.Paths() {
		next.mu.Lock()
		_, ok := next.Artifacts[p]
		next.mu.Unlock()
		if !ok {
			out = append(out, p)
		}
	}
	return out
}

func safePath(p string) bool {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return false
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	return clean != ".." && !strings.HasPrefix(clean, "../")
}
