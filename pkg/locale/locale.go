// Package locale converts locale-formatted statement dates and amounts into
// canonical ISO dates and signed decimals.
package locale

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ISODate is the canonical output layout for dates.
const ISODate = "2006-01-02"

// Locale describes how a statement writes numbers and dates.
type Locale struct {
	DecimalSeparator string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	GroupSeparator   string `mapstructure:"group_separator" yaml:"group_separator"`

	// DateLayout is a Go time layout built from 02, 01 and 2006.
	DateLayout string `mapstructure:"date_layout" yaml:"date_layout"`
}

// German is the format used by German bank statements: 1.234,56 and 05.03.2024.
func German() Locale {
	return Locale{DecimalSeparator: ",", GroupSeparator: ".", DateLayout: "02.01.2006"}
}

func (l Locale) Validate() error {
	for name, sep := range map[string]string{"decimal": l.DecimalSeparator, "group": l.GroupSeparator} {
		if utf8.RuneCountInString(sep) != 1 {
			return fmt.Errorf("%s separator must be a single character, got %q", name, sep)
		}
		r, _ := utf8.DecodeRuneInString(sep)
		if unicode.IsDigit(r) || r == '-' {
			return fmt.Errorf("%s separator %q is ambiguous", name, sep)
		}
	}
	if l.DecimalSeparator == l.GroupSeparator {
		return fmt.Errorf("decimal and group separators are both %q", l.DecimalSeparator)
	}

	rest := l.DateLayout
	for _, tok := range []string{"2006", "02", "01"} {
		if strings.Count(rest, tok) != 1 {
			return fmt.Errorf("date layout %q must contain %s exactly once", l.DateLayout, tok)
		}
		rest = strings.Replace(rest, tok, "", 1)
	}
	for _, r := range rest {
		if unicode.IsDigit(r) || unicode.IsLetter(r) {
			return fmt.Errorf("date layout %q has unsupported element %q", l.DateLayout, r)
		}
	}
	return nil
}

// DatePattern matches the shape of a date in this locale. It does not check
// that the date exists in the calendar.
func (l Locale) DatePattern() *regexp.Regexp {
	p := regexp.QuoteMeta(l.DateLayout)
	p = strings.ReplaceAll(p, "2006", `\d{4}`)
	p = strings.ReplaceAll(p, "02", `\d{2}`)
	p = strings.ReplaceAll(p, "01", `\d{2}`)
	return regexp.MustCompile(p)
}

// AmountPattern matches an optionally negative amount with optional digit
// grouping and exactly two fractional digits.
func (l Locale) AmountPattern() *regexp.Regexp {
	group := regexp.QuoteMeta(l.GroupSeparator)
	dec := regexp.QuoteMeta(l.DecimalSeparator)
	return regexp.MustCompile(`-?\d+(?:` + group + `\d+)*` + dec + `\d{2}`)
}

// NormalizeDate returns text as YYYY-MM-DD. Text that does not parse as a real
// calendar date is returned unchanged.
func (l Locale) NormalizeDate(text string) string {
	iso, err := l.ParseDate(text)
	if err != nil {
		return text
	}
	return iso
}

// ParseDate strictly parses text with the locale layout and returns it as
// YYYY-MM-DD.
func (l Locale) ParseDate(text string) (string, error) {
	t, err := time.Parse(l.DateLayout, text)
	if err != nil {
		return "", err
	}
	return t.Format(ISODate), nil
}

// ParseAmount drops group separators and reads the rest as a signed decimal.
func (l Locale) ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, l.GroupSeparator, "")
	s = strings.Replace(s, l.DecimalSeparator, ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", text, err)
	}
	return d, nil
}

// Split distributes a signed value over the credit and debit columns. At most
// one of the two is non-zero.
func Split(value decimal.Decimal) (credit, debit decimal.Decimal) {
	switch value.Sign() {
	case 1:
		return value, decimal.Zero
	case -1:
		return decimal.Zero, value.Abs()
	default:
		return decimal.Zero, decimal.Zero
	}
}
