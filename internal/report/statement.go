// Package report derives presentation-level aggregates from a loaded
// movement list: totals per kind, net balance and the per-category
// breakdowns behind the donut charts. Everything here is pure computation
// over the list; nothing touches the network.
package report

import (
	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
)

type (
	// CategoryLine is one slice of a breakdown: a category's total and its
	// share of the kind's total.
	CategoryLine struct {
		Category core.Category
		Total    int64
		Share    decimal.Decimal
	}

	// Statement summarizes one movement collection.
	Statement struct {
		Resource core.Resource
		Totals   map[core.Kind]int64
		Net      int64
		Count    int
	}
)

var hundred = decimal.NewFromInt(100)

// Build computes a statement for the resource from an already-fetched list.
func Build(resource core.Resource, movements []core.Movement) Statement {
	st := Statement{
		Resource: resource,
		Totals:   make(map[core.Kind]int64, 2),
		Count:    len(movements),
	}
	for _, kind := range resource.Kinds() {
		st.Totals[kind] = 0
	}
	for _, m := range movements {
		st.Totals[m.Kind] += m.Amount
		if m.Kind.Credit() {
			st.Net += m.Amount
		} else {
			st.Net -= m.Amount
		}
	}
	return st
}

// Breakdown splits one kind's total by category, in first-seen list order.
// Shares are percentages of the kind's total, rounded to two places; an
// empty kind yields no lines.
func Breakdown(movements []core.Movement, kind core.Kind) []CategoryLine {
	totals := map[string]int64{}
	order := make([]core.Category, 0)
	var kindTotal int64

	for _, m := range movements {
		if m.Kind != kind {
			continue
		}
		if _, seen := totals[m.Category.ID]; !seen {
			order = append(order, m.Category)
		}
		totals[m.Category.ID] += m.Amount
		kindTotal += m.Amount
	}
	if kindTotal == 0 {
		return nil
	}

	total := decimal.NewFromInt(kindTotal)
	lines := make([]CategoryLine, 0, len(order))
	for _, cat := range order {
		amount := totals[cat.ID]
		share := decimal.NewFromInt(amount).Mul(hundred).DivRound(total, 2)
		lines = append(lines, CategoryLine{Category: cat, Total: amount, Share: share})
	}
	return lines
}
