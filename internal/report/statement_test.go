package report

import (
	"testing"

	"moneytrack/internal/core"
)

func m(kind core.Kind, categoryID string, amount int64) core.Movement {
	return core.Movement{
		Kind:     kind,
		Category: core.Category{ID: categoryID, Name: categoryID},
		Amount:   amount,
	}
}

func TestBuildStatement(t *testing.T) {
	movements := []core.Movement{
		m(core.Income, "salary", 1000),
		m(core.Expenses, "food", 300),
		m(core.Expenses, "rent", 500),
		m(core.Income, "salary", 200),
	}

	st := Build(core.Transactions, movements)

	if st.Count != 4 {
		t.Errorf("Count = %d, want 4", st.Count)
	}
	if st.Totals[core.Income] != 1200 {
		t.Errorf("Totals[income] = %d, want 1200", st.Totals[core.Income])
	}
	if st.Totals[core.Expenses] != 800 {
		t.Errorf("Totals[expenses] = %d, want 800", st.Totals[core.Expenses])
	}
	if st.Net != 400 {
		t.Errorf("Net = %d, want 400", st.Net)
	}
}

func TestBuildEmptyListSeedsKindTotals(t *testing.T) {
	st := Build(core.Debts, nil)

	if st.Count != 0 || st.Net != 0 {
		t.Errorf("empty statement = %+v", st)
	}
	// Both kinds must be present with zero totals, not missing.
	for _, kind := range core.Debts.Kinds() {
		total, ok := st.Totals[kind]
		if !ok {
			t.Errorf("Totals missing %s", kind)
		}
		if total != 0 {
			t.Errorf("Totals[%s] = %d, want 0", kind, total)
		}
	}
}

func TestBreakdownSharesAndOrder(t *testing.T) {
	movements := []core.Movement{
		m(core.Expenses, "food", 300),
		m(core.Income, "salary", 1000),
		m(core.Expenses, "rent", 500),
		m(core.Expenses, "food", 200),
	}

	lines := Breakdown(movements, core.Expenses)
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}

	// First-seen order, not alphabetical or by size.
	if lines[0].Category.ID != "food" || lines[1].Category.ID != "rent" {
		t.Errorf("order = [%s %s], want [food rent]", lines[0].Category.ID, lines[1].Category.ID)
	}
	if lines[0].Total != 500 || lines[1].Total != 500 {
		t.Errorf("totals = [%d %d], want [500 500]", lines[0].Total, lines[1].Total)
	}
	for i, line := range lines {
		if line.Share.StringFixed(2) != "50.00" {
			t.Errorf("lines[%d].Share = %s, want 50.00", i, line.Share)
		}
	}
}

func TestBreakdownRounding(t *testing.T) {
	movements := []core.Movement{
		m(core.Expenses, "a", 1),
		m(core.Expenses, "b", 1),
		m(core.Expenses, "c", 1),
	}

	lines := Breakdown(movements, core.Expenses)
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	for i, line := range lines {
		if line.Share.StringFixed(2) != "33.33" {
			t.Errorf("lines[%d].Share = %s, want 33.33", i, line.Share)
		}
	}
}

func TestBreakdownEmptyKind(t *testing.T) {
	movements := []core.Movement{m(core.Income, "salary", 1000)}

	if lines := Breakdown(movements, core.Expenses); lines != nil {
		t.Errorf("Breakdown() = %v, want nil for a kind with no movements", lines)
	}
}
