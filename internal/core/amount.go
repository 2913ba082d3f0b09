package core

import (
	"errors"
	"strconv"
)

// MaxAmountDigits bounds the amount input length. Twelve digits keeps the
// parsed value well inside int64 range.
const MaxAmountDigits = 12

var (
	ErrAmountNotDigits   = errors.New("amount must contain only digits")
	ErrAmountTooLong     = errors.New("amount exceeds 12 digits")
	ErrAmountLeadingZero = errors.New("amount must not start with zero")
	ErrAmountNotPositive = errors.New("amount must be positive")
)

// ValidateAmountInput checks a partial amount as typed, keystroke by
// keystroke. A lone "0" is tolerated as a transient editing state; it is
// still rejected on submit by Draft.Validate.
func ValidateAmountInput(s string) error {
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ErrAmountNotDigits
		}
	}
	if len(s) > MaxAmountDigits {
		return ErrAmountTooLong
	}
	if len(s) > 1 && s[0] == '0' {
		return ErrAmountLeadingZero
	}
	return nil
}

// ParseAmount converts a submitted amount input into a positive integer of
// whole currency units.
func ParseAmount(s string) (int64, error) {
	if err := ValidateAmountInput(s); err != nil {
		return 0, err
	}
	if s == "" || s == "0" {
		return 0, ErrAmountNotPositive
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrAmountNotDigits
	}
	return n, nil
}
