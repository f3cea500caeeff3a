// Package keywords holds the ordered vocabulary of category labels used both to
// recognise transaction lines and to classify them.
package keywords

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

var (
	defaultLabels = []string{"Lastschrift", "Ueberweisung", "Gutschrift", "Entgelt", "Gehalt/Rente"}
	extendedLabel = "Dauerauftrag/Terminueberw."
)

// ErrEmptyTable is returned when a table would contain no labels.
var ErrEmptyTable = errors.New("keyword table is empty")

// Table is an ordered list of category labels. Earlier labels take
// precedence when more than one of them occurs in the same text.
type Table struct {
	labels  []string
	index   map[string]int
	matcher *ahocorasick.Matcher
}

// New builds a table from labels in priority order. Duplicates keep their
// first position.
func New(labels ...string) (*Table, error) {
	t := &Table{index: make(map[string]int, len(labels))}
	for i, label := range labels {
		if strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("keyword %d is blank", i)
		}
		if _, ok := t.index[label]; ok {
			continue
		}
		t.index[label] = len(t.labels)
		t.labels = append(t.labels, label)
	}
	if len(t.labels) == 0 {
		return nil, ErrEmptyTable
	}
	t.matcher = ahocorasick.NewStringMatcher(t.labels)
	return t, nil
}

// Default returns the standard statement vocabulary.
func Default() *Table {
	t, _ := New(defaultLabels...)
	return t
}

// Extended returns the standard vocabulary plus standing orders.
func Extended() *Table {
	t, _ := New(append(append([]string{}, defaultLabels...), extendedLabel)...)
	return t
}

// Labels returns a copy of the labels in priority order.
func (t *Table) Labels() []string {
	return append([]string(nil), t.labels...)
}

func (t *Table) Len() int {
	return len(t.labels)
}

// Contains reports whether label is part of the table.
func (t *Table) Contains(label string) bool {
	_, ok := t.index[label]
	return ok
}

// Any reports whether at least one label occurs in text.
func (t *Table) Any(text string) bool {
	return len(t.matcher.MatchThreadSafe([]byte(text))) > 0
}

// First returns the label declared earliest in the table among those that
// occur in text. The position of the label inside text is irrelevant.
func (t *Table) First(text string) (string, bool) {
	hits := t.matcher.MatchThreadSafe([]byte(text))
	if len(hits) == 0 {
		return "", false
	}
	best := hits[0]
	for _, idx := range hits[1:] {
		if idx < best {
			best = idx
		}
	}
	return t.labels[best], true
}
