package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// writePDF builds a minimal PDF whose pages carry the given content streams.
func writePDF(t *testing.T, streams ...string) string {
	t.Helper()

	n := len(streams)
	fontObj := 3 + 2*n
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
	}
	kids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i, stream := range streams {
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontObj, 4+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "statement.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write pdf: %v", err)
	}
	return path
}

// two statement lines in one text object, separated by a relative move
const statementPage = "BT /F1 12 Tf 50 700 Td (05.03.2024 Lastschrift -12,50 SUPERMARKET XYZ) Tj " +
	"0 -14 Td (06.03.2024 Gutschrift 100,00 ACME) Tj ET"

func TestIsDocument(t *testing.T) {
	tests := []struct {
		name string
		exts []string
		want bool
	}{
		{"Kontoauszug_2024_03.pdf", DefaultExtensions, true},
		{"STATEMENT.PDF", DefaultExtensions, true},
		{"a.txt", []string{"txt", ".pdf"}, true},
		{"notes.txt", DefaultExtensions, false},
		{"pdf", DefaultExtensions, false},
	}

	for _, tt := range tests {
		if got := IsDocument(tt.name, tt.exts); got != tt.want {
			t.Errorf("IsDocument(%q, %v) = %v, want %v", tt.name, tt.exts, got, tt.want)
		}
	}
}

func TestPDFPagesMissingFile(t *testing.T) {
	src := NewPDF("", log.New(io.Discard))
	if _, err := src.Pages(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
}

func TestPDFPagesLayout(t *testing.T) {
	path := writePDF(t, statementPage, "BT /F1 10 Tf 50 80 Td (Seite 2 von 2) Tj ET")

	pages, err := NewPDF(ModeLayout, log.New(io.Discard)).Pages(path)
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pages))
	}

	want := "05.03.2024 Lastschrift -12,50 SUPERMARKET XYZ\n06.03.2024 Gutschrift 100,00 ACME"
	if !pages[0].OK || pages[0].Text != want {
		t.Errorf("Unexpected first page:\n%q\nwant:\n%q", pages[0].Text, want)
	}
	if pages[1].Index != 1 || pages[1].Text != "Seite 2 von 2" {
		t.Errorf("Unexpected second page: %+v", pages[1])
	}
}

func TestPDFPagesLayoutOrdersByPosition(t *testing.T) {
	// drawn bottom line first and the amount column before the text column
	stream := "BT /F1 12 Tf 50 686 Td (06.03.2024 Gutschrift) Tj ET " +
		"BT /F1 12 Tf 300 700 Td (-12,50) Tj ET " +
		"BT /F1 12 Tf 50 700 Td (05.03.2024 Lastschrift) Tj ET"
	path := writePDF(t, stream)

	pages, err := NewPDF(ModeLayout, log.New(io.Discard)).Pages(path)
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}

	want := "05.03.2024 Lastschrift -12,50\n06.03.2024 Gutschrift"
	if pages[0].Text != want {
		t.Errorf("Unexpected text:\n%q\nwant:\n%q", pages[0].Text, want)
	}
}

func TestPDFPagesEmptyPage(t *testing.T) {
	path := writePDF(t, "0 0 m 100 100 l")

	pages, err := NewPDF(ModeLayout, log.New(io.Discard)).Pages(path)
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if len(pages) != 1 || pages[0].OK {
		t.Errorf("Expected one page without text, got %+v", pages)
	}
}
