// Package document exposes statement files as a sequence of page texts.
package document

import (
	"path/filepath"
	"strings"
)

// Page is the extracted text of one page. OK is false when the page yielded
// no text at all.
type Page struct {
	Index int
	Text  string
	OK    bool
}

// Source turns a document on disk into its pages.
type Source interface {
	Pages(path string) ([]Page, error)
}

// DefaultExtensions lists the file extensions treated as documents.
var DefaultExtensions = []string{".pdf"}

// IsDocument reports whether name carries one of exts, ignoring case.
func IsDocument(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
