package services

import (
	"errors"
	"fmt"
)

// ErrValidation marks errors caused by user input.
var ErrValidation = errors.New("validation failed")

// User-facing messages.
const (
	MsgAmountRequired  = "Please enter a payment amount greater than zero."
	MsgAlreadyPaid     = "This booking is already fully paid."
	MsgInvalidMethod   = "Please choose a payment method."
	MsgDiscountTooHigh = "Discount cannot exceed the total amount."
	MsgNegativeAmount  = "Amounts cannot be negative."
	MsgNameRequired    = "Name is required."
	MsgCategoryNeeded  = "Category is required."
	MsgInvalidAge      = "Please enter a valid age."
	MsgInvalidGender   = "Please choose a gender."
	MsgInvalidStatus   = "Please choose a booking status."
	MsgInvalidEmail    = "Please enter a valid email address."

	MsgBookingUpdated = "Booking updated"
	MsgPaymentAdded   = "Payment added"
	MsgPatientUpdated = "Patient updated"
	MsgTestUpdated    = "Test updated"
)

// ValidationError reports a rejected form field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func invalid(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}
