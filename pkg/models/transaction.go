package models

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/kontocsv/pkg/locale"
)

// Undefined labels a transaction whose text matched no keyword.
const Undefined = "undefined"

// Transaction is one recognised statement line.
type Transaction struct {
	Date     string
	Credit   decimal.Decimal
	Debit    decimal.Decimal
	Category string
	Purpose  string
}

// Amount returns the signed value of the transaction.
func (t *Transaction) Amount() decimal.Decimal {
	return t.Credit.Sub(t.Debit)
}

type Builder struct {
	tx  Transaction
	err error
}

func NewTransaction(date string) *Builder {
	b := &Builder{tx: Transaction{Date: date, Category: Undefined}}
	if date == "" {
		b.err = errors.New("transaction date is empty")
	}
	return b
}

// SetAmount splits a signed value into the credit or debit column.
func (b *Builder) SetAmount(value decimal.Decimal) *Builder {
	b.tx.Credit, b.tx.Debit = locale.Split(value)
	return b
}

func (b *Builder) SetCategory(category, purpose string) *Builder {
	if category == "" {
		category = Undefined
	}
	b.tx.Category = category
	b.tx.Purpose = purpose
	return b
}

func (b *Builder) Build() (*Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	tx := b.tx
	return &tx, nil
}
