package parser

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/kontocsv/pkg/document"
	"github.com/yurifrl/kontocsv/pkg/keywords"
	"github.com/yurifrl/kontocsv/pkg/locale"
	"github.com/yurifrl/kontocsv/pkg/models"
)

// SkipFunc decides whether a page is left out of the conversion.
type SkipFunc func(index, count int, text string) bool

// SkipLastPage drops the final page of every document, which on the
// supported statements only carries the closing balance and legal notes.
func SkipLastPage(index, count int, _ string) bool {
	return index == count-1
}

func SkipNone(int, int, string) bool {
	return false
}

type Parser struct {
	logger *log.Logger
	table  *keywords.Table
	locale locale.Locale
	date   *regexp.Regexp
	amount *regexp.Regexp
}

type Option func(*Parser)

func WithTable(t *keywords.Table) Option {
	return func(p *Parser) {
		if t != nil {
			p.table = t
		}
	}
}

func WithLocale(l locale.Locale) Option {
	return func(p *Parser) {
		p.locale = l
	}
}

func New(logger *log.Logger, opts ...Option) *Parser {
	p := &Parser{
		logger: logger,
		table:  keywords.Default(),
		locale: locale.German(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.date = p.locale.DatePattern()
	p.amount = p.locale.AmountPattern()
	return p
}

func (p *Parser) Table() *keywords.Table {
	return p.table
}

// ParsePages converts pages in document order. Pages without text and pages
// selected by skip contribute nothing.
func (p *Parser) ParsePages(pages []document.Page, skip SkipFunc) []models.Transaction {
	if skip == nil {
		skip = SkipNone
	}

	var transactions []models.Transaction
	for i, page := range pages {
		if skip(i, len(pages), page.Text) {
			p.logger.Debug("skipping page", "page", i, "pages", len(pages))
			continue
		}
		if !page.OK {
			p.logger.Debug("page has no text", "page", i)
			continue
		}
		transactions = append(transactions, p.ParseText(page.Text)...)
	}
	return transactions
}

// ParseText converts every transaction line of text.
func (p *Parser) ParseText(text string) []models.Transaction {
	var transactions []models.Transaction
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		tx, ok := p.ParseLine(line)
		if !ok {
			continue
		}
		transactions = append(transactions, *tx)
	}
	return transactions
}
