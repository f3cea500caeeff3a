package coverage

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/yurifrl/kontocsv/pkg/keywords"
)

// Status is the coverage result for one label.
//
//   - Seen:    in the table and observed.
//   - Missing: observed but not in the table.
//   - Extra:   in the table but never observed.
type Status int

const (
	Seen Status = iota
	Missing
	Extra
)

func (s Status) String() string {
	switch s {
	case Seen:
		return "seen"
	case Missing:
		return "missing"
	case Extra:
		return "extra"
	}
	return "unknown"
}

type Entry struct {
	Label  string
	Status Status
}

type Report struct {
	Items []Entry
}

// Build lists table labels in priority order followed by observed labels
// the table does not know.
func Build(observed *Set, table *keywords.Table) *Report {
	seen := make(map[string]bool)
	for _, label := range observed.Labels() {
		seen[label] = true
	}

	items := make([]Entry, 0, table.Len()+len(seen))
	for _, label := range table.Labels() {
		status := Extra
		if seen[label] {
			status = Seen
		}
		items = append(items, Entry{Label: label, Status: status})
	}
	for _, label := range observed.Labels() {
		if !table.Contains(label) {
			items = append(items, Entry{Label: label, Status: Missing})
		}
	}
	return &Report{Items: items}
}

func (r *Report) filter(status Status) []string {
	var out []string
	for _, e := range r.Items {
		if e.Status == status {
			out = append(out, e.Label)
		}
	}
	return out
}

// Missing returns observed labels absent from the table.
func (r *Report) Missing() []string {
	return r.filter(Missing)
}

// Extra returns table labels that were never observed.
func (r *Report) Extra() []string {
	return r.filter(Extra)
}

func (r *Report) Print(w io.Writer) {
	seenStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))    // gray
	missingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")) // red
	extraStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))  // yellow

	fmt.Fprintln(w, "Category coverage:")
	for _, e := range r.Items {
		switch e.Status {
		case Seen:
			fmt.Fprintln(w, seenStyle.Render("= "+e.Label))
		case Missing:
			fmt.Fprintln(w, missingStyle.Render("+ "+e.Label+" (missing from keyword table)"))
		case Extra:
			fmt.Fprintln(w, extraStyle.Render("- "+e.Label+" (never seen)"))
		}
	}

	missing, extra := len(r.Missing()), len(r.Extra())
	if missing == 0 && extra == 0 {
		fmt.Fprintf(w, "\nCoverage: all %d keyword(s) seen\n", len(r.Items))
		return
	}
	fmt.Fprintf(w, "\nCoverage: %d missing, %d extra\n", missing, extra)
}
