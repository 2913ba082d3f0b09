package core

import (
	"errors"
	"strings"
	"testing"
)

func TestKindResource(t *testing.T) {
	tests := []struct {
		kind    Kind
		want    Resource
		wantErr bool
	}{
		{Income, Transactions, false},
		{Expenses, Transactions, false},
		{Debt, Debts, false},
		{Loan, Debts, false},
		{Kind("transfer"), "", true},
		{Kind(""), "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := tt.kind.Resource()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKind) {
					t.Fatalf("Resource() error = %v, want ErrInvalidKind", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resource() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resource() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindCredit(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{Income, true},
		{Loan, true},
		{Expenses, false},
		{Debt, false},
	}

	for _, tt := range tests {
		if got := tt.kind.Credit(); got != tt.want {
			t.Errorf("%s.Credit() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestDraftValidate(t *testing.T) {
	valid := func() Draft {
		return Draft{
			Kind:     Expenses,
			Concept:  "groceries",
			Amount:   "120",
			Category: Category{ID: "food"},
		}
	}
	validDebt := func() Draft {
		return Draft{
			Kind:         Debt,
			Concept:      "lunch",
			Counterparty: "alice",
			Amount:       "15",
			Category:     NoCategory,
		}
	}

	tests := []struct {
		name     string
		resource Resource
		mutate   func(*Draft)
		base     func() Draft
		wantErr  error
	}{
		{name: "valid transaction", resource: Transactions, base: valid, mutate: func(d *Draft) {}},
		{name: "valid debt", resource: Debts, base: validDebt, mutate: func(d *Draft) {}},
		{name: "empty concept", resource: Transactions, base: valid, mutate: func(d *Draft) { d.Concept = "" }, wantErr: ErrEmptyFields},
		{name: "blank concept", resource: Transactions, base: valid, mutate: func(d *Draft) { d.Concept = "   " }, wantErr: ErrEmptyFields},
		{name: "empty amount", resource: Transactions, base: valid, mutate: func(d *Draft) { d.Amount = "" }, wantErr: ErrEmptyFields},
		{name: "zero amount", resource: Transactions, base: valid, mutate: func(d *Draft) { d.Amount = "0" }, wantErr: ErrEmptyFields},
		{name: "empty category", resource: Transactions, base: valid, mutate: func(d *Draft) { d.Category = Category{} }, wantErr: ErrEmptyFields},
		{name: "sentinel category is fine", resource: Transactions, base: valid, mutate: func(d *Draft) { d.Category = NoCategory }},
		{name: "missing counterparty on debt", resource: Debts, base: validDebt, mutate: func(d *Draft) { d.Counterparty = "" }, wantErr: ErrEmptyFields},
		{name: "kind from wrong resource", resource: Debts, base: valid, mutate: func(d *Draft) {}, wantErr: ErrInvalidKind},
		{name: "non-numeric amount", resource: Transactions, base: valid, mutate: func(d *Draft) { d.Amount = "12a" }, wantErr: ErrAmountNotDigits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := tt.base()
			tt.mutate(&draft)
			err := draft.Validate(tt.resource)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDraftValidateLengths(t *testing.T) {
	long := strings.Repeat("x", MaxConceptLen+1)

	draft := Draft{Kind: Income, Concept: long, Amount: "5", Category: NoCategory}
	if err := draft.Validate(Transactions); err == nil {
		t.Error("Validate() accepted a concept longer than the limit")
	}

	debt := Draft{Kind: Loan, Concept: "ok", Counterparty: long, Amount: "5", Category: NoCategory}
	if err := debt.Validate(Debts); err == nil {
		t.Error("Validate() accepted a counterparty longer than the limit")
	}

	exact := Draft{Kind: Income, Concept: strings.Repeat("x", MaxConceptLen), Amount: "5", Category: NoCategory}
	if err := exact.Validate(Transactions); err != nil {
		t.Errorf("Validate() rejected a concept at the limit: %v", err)
	}
}

func TestDraftEquals(t *testing.T) {
	movement := Movement{
		ID:           "m1",
		Kind:         Debt,
		Concept:      "lunch",
		Counterparty: "alice",
		Category:     Category{ID: "food", Name: "Food"},
		Amount:       15,
		UserID:       "u1",
	}
	same := Draft{
		Kind:         Debt,
		Concept:      "lunch",
		Counterparty: "alice",
		Category:     Category{ID: "food"},
		Amount:       "15",
	}

	tests := []struct {
		name     string
		resource Resource
		mutate   func(*Draft)
		want     bool
	}{
		{name: "identical", resource: Debts, mutate: func(d *Draft) {}, want: true},
		{name: "different concept", resource: Debts, mutate: func(d *Draft) { d.Concept = "dinner" }, want: false},
		{name: "different amount", resource: Debts, mutate: func(d *Draft) { d.Amount = "16" }, want: false},
		{name: "different category", resource: Debts, mutate: func(d *Draft) { d.Category.ID = "other" }, want: false},
		{name: "different counterparty", resource: Debts, mutate: func(d *Draft) { d.Counterparty = "bob" }, want: false},
		{name: "counterparty ignored on transactions", resource: Transactions, mutate: func(d *Draft) { d.Counterparty = "bob" }, want: true},
		{name: "unparseable amount", resource: Debts, mutate: func(d *Draft) { d.Amount = "" }, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := same
			tt.mutate(&draft)
			if got := draft.Equals(movement, tt.resource); got != tt.want {
				t.Errorf("Equals() = %v, want %v", got, tt.want)
			}
		})
	}
}
