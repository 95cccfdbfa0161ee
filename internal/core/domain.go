package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// PersonAmount is one person's entry on the bill: a display name and the
	// subtotal of their own items. Names are labels, not identifiers; the
	// allocator never requires them to be unique.
	PersonAmount struct {
		Name     string
		Subtotal decimal.Decimal
	}

	// PersonShare is the final amount owed by one person after shared
	// charges have been distributed.
	PersonShare struct {
		Name   string
		Amount decimal.Decimal
	}

	// SplitResult is the outcome of one allocation. Shares preserves the
	// order of the input entries; the presentation layer maps results back
	// to its rows positionally.
	SplitResult struct {
		Subtotal   decimal.Decimal
		GrandTotal decimal.Decimal
		Shares     []PersonShare
		EqualSplit bool
	}
)

var (
	ErrEmptyName     = errors.New("empty person name")
	ErrNameTooLong   = errors.New("person name too long (max 100 characters)")
	ErrDuplicateName = errors.New("person already on the roster")
)

// ValidateName checks a roster name before it is stored or displayed.
func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return ErrEmptyName
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}
