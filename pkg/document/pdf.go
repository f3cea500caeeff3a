package document

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ledongthuc/pdf"
)

type Mode string

const (
	// ModeLayout rebuilds lines from glyph positions: glyphs sharing a
	// baseline form one line, ordered left to right.
	ModeLayout Mode = "layout"
	// ModePlain uses the text layer as the PDF content stream lays it out.
	ModePlain Mode = "plain"
	// ModeRows uses the reader's row grouping of text runs.
	ModeRows Mode = "rows"
)

// PDF reads page texts through the PDF text layer.
type PDF struct {
	mode   Mode
	logger *log.Logger
}

func NewPDF(mode Mode, logger *log.Logger) *PDF {
	if mode == "" {
		mode = ModeLayout
	}
	return &PDF{mode: mode, logger: logger}
}

func (s *PDF) Pages(path string) ([]Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	n := r.NumPage()
	pages := make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, s.page(r.Page(i), i-1))
	}
	s.logger.Debug("read pdf", "path", path, "pages", n, "mode", s.mode)
	return pages, nil
}

// page never fails: unreadable pages come back empty.
func (s *PDF) page(p pdf.Page, index int) (page Page) {
	page.Index = index
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Debug("page text extraction panicked", "page", index, "panic", rec)
			page = Page{Index: index}
		}
	}()

	if p.V.IsNull() {
		s.logger.Debug("page has no content", "page", index)
		return page
	}

	text, err := s.text(p)
	if err != nil {
		s.logger.Debug("error extracting page text", "page", index, "error", err)
		return page
	}

	page.Text = text
	page.OK = strings.TrimSpace(text) != ""
	return page
}

func (s *PDF) text(p pdf.Page) (string, error) {
	switch s.mode {
	case ModePlain:
		return p.GetPlainText(nil)
	case ModeRows:
		return rowText(p)
	default:
		return layoutText(p.Content().Text), nil
	}
}

func rowText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		words := make([]string, 0, len(row.Content))
		for _, w := range row.Content {
			words = append(words, w.S)
		}
		lines = append(lines, strings.Join(words, " "))
	}
	return strings.Join(lines, "\n"), nil
}

// layoutText groups glyphs into lines by baseline, top to bottom, and orders
// each line by X. A gap wider than a third of the font size reads as a space.
func layoutText(glyphs []pdf.Text) string {
	sorted := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]pdf.Text
	for _, g := range sorted {
		n := len(lines)
		if n > 0 && math.Abs(lines[n-1][0].Y-g.Y) <= baselineTolerance(g) {
			lines[n-1] = append(lines[n-1], g)
			continue
		}
		lines = append(lines, []pdf.Text{g})
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X < line[j].X
		})
		var b strings.Builder
		for i, g := range line {
			if i > 0 {
				prev := line[i-1]
				gap := g.X - (prev.X + prev.W)
				if gap > g.FontSize/3 && prev.S != " " && g.S != " " {
					b.WriteByte(' ')
				}
			}
			b.WriteString(g.S)
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

func baselineTolerance(g pdf.Text) float64 {
	return math.Max(1, g.FontSize/4)
}
