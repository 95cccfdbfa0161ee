// Package core implements the bill splitting arithmetic.
//
// Shared charges (tax, tip, delivery) are distributed across people
// proportionally to each person's subtotal. When every subtotal is zero the
// charges are split equally instead, since proportional weights are undefined.
package core

import "github.com/shopspring/decimal"

// Allocate distributes otherCharges across people and returns the final
// per-person amounts in input order.
//
// The second return value is false when there is nothing to calculate: the
// people list is empty, or all subtotals sum to zero and there are no positive
// charges to split. That outcome is not an error.
//
// Amounts are exact decimals throughout; nothing is rounded here. In the
// proportional branch the last share absorbs the division remainder so that
// the shares sum to the grand total exactly; the equal split keeps all
// shares identical instead.
func Allocate(people []PersonAmount, otherCharges decimal.Decimal) (SplitResult, bool) {
	subtotal := decimal.Zero
	for _, p := range people {
		subtotal = subtotal.Add(p.Subtotal)
	}

	if subtotal.IsZero() {
		if !otherCharges.IsPositive() || len(people) == 0 {
			return SplitResult{}, false
		}
		return equalSplit(people, otherCharges), true
	}

	result := SplitResult{
		Subtotal:   subtotal,
		GrandTotal: subtotal.Add(otherCharges),
		Shares:     make([]PersonShare, len(people)),
	}

	distributed := decimal.Zero
	for i, p := range people {
		var charge decimal.Decimal
		if i == len(people)-1 {
			// Remainder goes to the last person so the shares sum to
			// the grand total exactly.
			charge = otherCharges.Sub(distributed)
		} else {
			charge = otherCharges.Mul(p.Subtotal).Div(subtotal)
			distributed = distributed.Add(charge)
		}
		result.Shares[i] = PersonShare{Name: p.Name, Amount: p.Subtotal.Add(charge)}
	}

	return result, true
}

// equalSplit divides the shared charges evenly. Used when the subtotal is
// zero and proportional weights cannot be computed. Every share is the same
// value: an indivisible charge keeps its division tail rather than loading
// the remainder onto one person.
func equalSplit(people []PersonAmount, otherCharges decimal.Decimal) SplitResult {
	share := otherCharges.Div(decimal.NewFromInt(int64(len(people))))

	result := SplitResult{
		Subtotal:   decimal.Zero,
		GrandTotal: otherCharges,
		Shares:     make([]PersonShare, len(people)),
		EqualSplit: true,
	}
	for i, p := range people {
		result.Shares[i] = PersonShare{Name: p.Name, Amount: share}
	}
	return result
}
