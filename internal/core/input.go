package core

import (
	"errors"
	"strings"
)

// ProjectInput is a create or edit request as submitted by the form layer.
// Amount is expressed in the display currency that was selected when the
// form was filled in.
type ProjectInput struct {
	Name     string
	Client   string
	Date     Date
	Amount   float64
	Currency Currency
	Notes    string

	// Optional on create (the DefaultPolicy fills them) and on edit (left
	// untouched when empty).
	Status     Status
	AssignedTo string
}

func (in ProjectInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	if len(in.Name) > 200 {
		return ErrNameTooLong
	}
	if err := in.Date.Validate(); err != nil {
		return err
	}
	if !ValidAmount(in.Amount) {
		return ErrInvalidAmount
	}
	if in.Currency != "" && !in.Currency.Valid() {
		return ErrInvalidCurrency
	}
	if in.Status != "" && !in.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// IsValidationError reports whether err was produced by input validation.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmptyName, ErrNameTooLong, ErrInvalidDate, ErrInvalidDay, ErrInvalidMonth,
		ErrInvalidAmount, ErrInvalidStatus, ErrInvalidCurrency,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
