package parser

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/kontocsv/pkg/models"
)

// Fields are the raw tokens of a transaction line.
type Fields struct {
	Date      string
	Amount    string
	HasAmount bool
	// Residual is the line without the date and amount tokens.
	Residual string
}

// IsTransactionLine requires a date-shaped token and at least one keyword.
func (p *Parser) IsTransactionLine(line string) bool {
	return p.date.MatchString(line) && p.table.Any(line)
}

// ExtractFields cuts the line at its first date, then takes the first amount
// after that date. ok is false when the line has no date.
func (p *Parser) ExtractFields(line string) (f Fields, ok bool) {
	loc := p.date.FindStringIndex(line)
	if loc == nil {
		return Fields{}, false
	}

	f.Date = line[loc[0]:loc[1]]
	rest := line[loc[1]:]

	if m := p.amount.FindStringIndex(rest); m != nil {
		f.Amount = rest[m[0]:m[1]]
		f.HasAmount = true
		rest = rest[:m[0]] + rest[m[1]:]
	}

	f.Residual = strings.TrimSpace(rest)
	return f, true
}

// Resolve picks the category for residual text. The keyword declared first
// in the table wins; the purpose is what remains once that keyword is cut
// out. Without a keyword the category is undefined and the purpose is the
// residual text as is.
func (p *Parser) Resolve(residual string) (category, purpose string) {
	label, ok := p.table.First(residual)
	if !ok {
		return models.Undefined, residual
	}
	return label, strings.TrimSpace(strings.Replace(residual, label, "", 1))
}

// ParseLine runs the full line pipeline. Anomalies inside a transaction line
// degrade to defaults: the raw date is kept, a missing amount is zero and an
// unknown category is undefined.
func (p *Parser) ParseLine(line string) (*models.Transaction, bool) {
	if !p.IsTransactionLine(line) {
		return nil, false
	}

	f, ok := p.ExtractFields(line)
	if !ok {
		return nil, false
	}

	value := decimal.Zero
	if f.HasAmount {
		v, err := p.locale.ParseAmount(f.Amount)
		if err != nil {
			p.logger.Debug("error parsing amount", "line", line, "error", err)
		} else {
			value = v
		}
	} else {
		p.logger.Debug("no amount on line", "line", line)
	}

	date, err := p.locale.ParseDate(f.Date)
	if err != nil {
		p.logger.Debug("keeping unparsable date", "date", f.Date, "error", err)
		date = f.Date
	}

	category, purpose := p.Resolve(f.Residual)
	if category == models.Undefined {
		p.logger.Debug("no category for line", "line", line)
	}

	tx, err := models.NewTransaction(date).
		SetAmount(value).
		SetCategory(category, purpose).
		Build()
	if err != nil {
		p.logger.Debug("error building transaction", "line", line, "error", err)
		return nil, false
	}
	return tx, true
}
