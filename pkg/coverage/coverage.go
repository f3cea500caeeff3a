// Package coverage compares the categories seen during a run with the
// keyword table.
package coverage

import (
	"sort"
	"sync"
)

// Set accumulates the category labels observed during one run. It is safe
// for concurrent use.
type Set struct {
	mu     sync.Mutex
	labels map[string]struct{}
}

func NewSet() *Set {
	return &Set{labels: make(map[string]struct{})}
}

// Observe records label. A nil set ignores it.
func (s *Set) Observe(label string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.labels == nil {
		s.labels = make(map[string]struct{})
	}
	s.labels[label] = struct{}{}
}

// Merge adds every label of other to s.
func (s *Set) Merge(other *Set) {
	if s == nil || other == nil || other == s {
		return
	}
	for _, label := range other.Labels() {
		s.Observe(label)
	}
}

// Labels returns the observed labels sorted.
func (s *Set) Labels() []string {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.labels))
	for label := range s.labels {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.labels)
}

func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = make(map[string]struct{})
}
