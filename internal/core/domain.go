package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income   Kind = "income"
	Expenses Kind = "expenses"
	Debt     Kind = "debt"
	Loan     Kind = "loan"
)

const (
	Transactions Resource = "transactions"
	Debts        Resource = "debts"
)

// NoCategory is the sentinel "no category" reference. A movement always
// carries a category; it is never absent.
var NoCategory = Category{ID: "none", Name: "No category"}

const (
	MaxConceptLen      = 40
	MaxCounterpartyLen = 40
)

type (
	// Resource names the server-side collection a movement belongs to.
	Resource string

	// Kind discriminates the movement variants. Income and Expenses belong
	// to Transactions; Debt and Loan belong to Debts. The discriminator is
	// always explicit and checked exhaustively, never inferred from which
	// fields happen to be set.
	Kind string

	Category struct {
		ID   string `json:"_id"`
		Name string `json:"name,omitempty"`
	}

	// Movement is a persisted transaction or debt record as returned by the
	// server. Amount is a positive integer in whole currency units; the
	// credit/debit sign is derived from Kind, never stored.
	Movement struct {
		ID           string    `json:"_id"`
		Kind         Kind      `json:"type"`
		Concept      string    `json:"concept"`
		Counterparty string    `json:"entity,omitempty"`
		Category     Category  `json:"category"`
		Amount       int64     `json:"amount"`
		UserID       string    `json:"userId"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	// Draft is an in-edit movement without a confirmed server ID. Amount is
	// kept as the raw input string until submit.
	Draft struct {
		Kind         Kind
		Concept      string
		Counterparty string
		Category     Category
		Amount       string
	}
)

var (
	ErrEmptyFields = errors.New("required fields are empty")
	ErrNoChanges   = errors.New("no changes to save")
	ErrNotFound    = errors.New("movement not found")
	ErrInvalidKind = errors.New("invalid movement kind")
)

// Credit reports whether the kind counts toward the positive side of a
// balance (income and loan) as opposed to the debit side (expenses and debt).
func (k Kind) Credit() bool {
	switch k {
	case Income, Loan:
		return true
	case Expenses, Debt:
		return false
	}
	return false
}

// Resource returns the collection a kind belongs to.
func (k Kind) Resource() (Resource, error) {
	switch k {
	case Income, Expenses:
		return Transactions, nil
	case Debt, Loan:
		return Debts, nil
	}
	return "", ErrInvalidKind
}

func (r Resource) Valid() bool {
	switch r {
	case Transactions, Debts:
		return true
	}
	return false
}

// Kinds lists the kinds valid for the resource.
func (r Resource) Kinds() []Kind {
	switch r {
	case Transactions:
		return []Kind{Income, Expenses}
	case Debts:
		return []Kind{Debt, Loan}
	}
	return nil
}

func (r Resource) hasKind(k Kind) bool {
	for _, valid := range r.Kinds() {
		if k == valid {
			return true
		}
	}
	return false
}

func (c Category) IsNone() bool {
	return c.ID == NoCategory.ID
}

// Validate applies the pre-submit checks for the given resource. Empty
// concept, empty or zero amount, empty category and, on debts, empty
// counterparty are all reported as ErrEmptyFields: callers surface one
// notification, not a field-by-field breakdown.
func (d Draft) Validate(resource Resource) error {
	if !resource.hasKind(d.Kind) {
		return ErrInvalidKind
	}
	if strings.TrimSpace(d.Concept) == "" {
		return ErrEmptyFields
	}
	if len(d.Concept) > MaxConceptLen {
		return errors.New("concept too long (max 40 characters)")
	}
	if d.Amount == "" || d.Amount == "0" {
		return ErrEmptyFields
	}
	if err := ValidateAmountInput(d.Amount); err != nil {
		return err
	}
	if d.Category.ID == "" {
		return ErrEmptyFields
	}
	if resource == Debts {
		if strings.TrimSpace(d.Counterparty) == "" {
			return ErrEmptyFields
		}
		if len(d.Counterparty) > MaxCounterpartyLen {
			return errors.New("counterparty too long (max 40 characters)")
		}
	}
	return nil
}

// Equals reports whether the draft is field-for-field identical to the
// persisted movement on the editable fields. ID and UserID are not compared;
// Counterparty only counts on the debts resource.
func (d Draft) Equals(m Movement, resource Resource) bool {
	if d.Kind != m.Kind || d.Concept != m.Concept || d.Category.ID != m.Category.ID {
		return false
	}
	amount, err := ParseAmount(d.Amount)
	if err != nil || amount != m.Amount {
		return false
	}
	if resource == Debts && d.Counterparty != m.Counterparty {
		return false
	}
	return true
}
