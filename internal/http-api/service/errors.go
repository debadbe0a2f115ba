package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrBookNotFound   = errors.New("book not found")
	ErrBookExists     = errors.New("a book with this id already exists")
	ErrBookInUse      = errors.New("book has rental records and cannot be deleted")
	ErrMemberNotFound = errors.New("member not found")
	ErrMemberInUse    = errors.New("member has rental records and cannot be deleted")
	ErrRentalNotFound = errors.New("rental not found")

	ErrBookUnavailable = errors.New("book not available")
	ErrDebtLimit       = errors.New("member debt is over the limit")
	ErrAlreadyReturned = errors.New("rental has already been returned")
)

// DebtLimitError refuses a checkout for a member whose debt reached the limit.
type DebtLimitError struct {
	Debt  float64
	Limit float64
}

func (e *DebtLimitError) Error() string {
	return fmt.Sprintf("member has a debt of %s, the limit is %g", FormatMoney(e.Debt), e.Limit)
}

func (e *DebtLimitError) Is(target error) bool {
	return target == ErrDebtLimit
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
