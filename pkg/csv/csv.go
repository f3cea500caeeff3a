package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/yurifrl/kontocsv/pkg/models"
)

// Row is the on-disk layout of one transaction.
type Row struct {
	Date     string `csv:"Date"`
	Credit   string `csv:"Amount (Credit)"`
	Debit    string `csv:"Amount (Debit)"`
	Category string `csv:"Category Name"`
	Purpose  string `csv:"Purpose"`
}

type FilterFunc func(*models.Transaction) bool

// Replacement is written in place of the separator inside text fields.
func Replacement(sep rune) string {
	if sep == ';' {
		return ","
	}
	return ";"
}

func NewRow(t *models.Transaction, sep rune) *Row {
	clean := func(s string) string {
		return strings.ReplaceAll(s, string(sep), Replacement(sep))
	}
	return &Row{
		Date:     clean(t.Date),
		Credit:   t.Credit.StringFixed(2),
		Debit:    t.Debit.StringFixed(2),
		Category: clean(t.Category),
		Purpose:  clean(t.Purpose),
	}
}

// Write emits a header followed by one row per transaction accepted by
// filter. A nil filter accepts everything.
func Write(w io.Writer, txs []models.Transaction, sep rune, filter FilterFunc) error {
	rows := make([]*Row, 0, len(txs))
	for i := range txs {
		if filter == nil || filter(&txs[i]) {
			rows = append(rows, NewRow(&txs[i], sep))
		}
	}

	cw := stdcsv.NewWriter(w)
	cw.Comma = sep
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}
