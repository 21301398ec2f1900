package extract

import (
	"slices"
	"sort"
	"sync"
)

// SourceIndex records which source files contributed to which generated
// destination. It feeds incremental-output bookkeeping only; generation is
// correct without it.
type SourceIndex struct {
	mu       sync.RWMutex
	byScreen map[string][]string
}

// NewSourceIndex creates an empty index.
func NewSourceIndex() *SourceIndex {
	return &SourceIndex{byScreen: make(map[string][]string)}
}

// Record stores the source files of a screen, replacing earlier entries.
func (s *SourceIndex) Record(screen string, sources []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byScreen[screen] = slices.Clone(sources)
}

// Sources returns the recorded source files of a screen.
func (s *SourceIndex) Sources(screen string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.byScreen[screen])
}

// Screens returns the screens that depend on the given source file, sorted.
func (s *SourceIndex) Screens(source string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for screen, sources := range s.byScreen {
		if slices.Contains(sources, source) {
			out = append(out, screen)
		}
	}
	sort.Strings(out)
	return out
}
