// Package entity defines the core business entities for the domain layer.
package entity

import (
	"github.com/shopspring/decimal"
)

// Direction represents the direction of money flow in a parsed message.
type Direction string

const (
	// DirectionInflow is money received ("entrada").
	DirectionInflow Direction = "entrada"
	// DirectionOutflow is money spent ("saída").
	DirectionOutflow Direction = "saida"
)

// ParsedIntent is the structured result of interpreting a free-text message
// as a financial transaction. It is a value type and is never persisted.
//
// A ParsedIntent is only ever produced for strictly positive amounts; a
// message whose numeric token is zero or negative does not parse.
type ParsedIntent struct {
	Direction Direction
	Amount    decimal.Decimal // Strictly positive, rounded to 2 fractional digits
	Memo      string          // Optional free text; empty means absent
}

// TransactionType maps the message direction to the stored transaction type.
func (d Direction) TransactionType() TransactionType {
	if d == DirectionInflow {
		return TransactionTypeIncome
	}
	return TransactionTypeExpense
}

// Label returns the human-readable Portuguese label for the direction.
func (d Direction) Label() string {
	if d == DirectionInflow {
		return "Entrada"
	}
	return "Saída"
}
