// Package http provides HTTP server and handler implementations.
//
// This file turns submitted forms into service inputs. Parsing only checks
// that values have the right shape; business rules stay in the services.

package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"labdesk/internal/core"
	"labdesk/internal/services"
)

// FormError reports a form value that could not be parsed.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string { return e.Field + ": " + e.Message }

const (
	msgInvalidDate   = "Please enter a valid date (YYYY-MM-DD)."
	msgInvalidAmount = "Please enter a valid amount, for example 1500 or 1,500.00."
	msgTotalRequired = "Please enter the total amount."
	msgPriceRequired = "Please enter the test price."
	msgBadForm       = "Invalid request format"
)

// parseForm parses the request body, failing with a 400 fragment.
func parseForm(r *http.Request) (url.Values, *HTMXResponseBuilder) {
	if err := r.ParseForm(); err != nil {
		return nil, BadRequestError(msgBadForm)
	}
	return r.PostForm, nil
}

// formValue returns the sanitized value of key.
func formValue(form url.Values, key string) string {
	return sanitizeInput(form.Get(key))
}

// parseMoney parses a rupee amount. An empty value is zero when optional.
func parseMoney(form url.Values, key string, required bool, missing string) (core.Money, error) {
	raw := formValue(form, key)
	if raw == "" {
		if required {
			return core.Money{}, &FormError{Field: key, Message: missing}
		}
		return core.Money{}, nil
	}
	paise, err := core.ParseRupeesToPaise(raw)
	if err != nil {
		return core.Money{}, &FormError{Field: key, Message: msgInvalidAmount}
	}
	return core.Money{Paise: paise}, nil
}

// splitTests reads test names from every value of key, each of which may
// hold a comma or newline separated list. Trimming and de-duplication are
// left to the booking itself.
func splitTests(form url.Values, key string) []string {
	var names []string
	for _, v := range form[key] {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '\n' }) {
			names = append(names, sanitizeInput(part))
		}
	}
	return names
}

// ParseBookingEdit reads the booking edit form.
func ParseBookingEdit(form url.Values) (services.BookingEdit, error) {
	var e services.BookingEdit

	if raw := formValue(form, "date"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return e, &FormError{Field: "date", Message: msgInvalidDate}
		}
		e.Date = d
	}
	e.Status = core.BookingStatus(formValue(form, "status"))

	total, err := parseMoney(form, "total", true, msgTotalRequired)
	if err != nil {
		return e, err
	}
	discount, err := parseMoney(form, "discount", false, "")
	if err != nil {
		return e, err
	}
	e.Total, e.Discount = total, discount
	e.AddTests = splitTests(form, "add_tests")
	e.RemoveTests = append(e.RemoveTests, form["remove_tests"]...)
	return e, nil
}

// ParsePaymentInput reads the add payment form. A blank amount is passed on
// as zero so the service reports it.
func ParsePaymentInput(form url.Values) (services.PaymentInput, error) {
	amount, err := parseMoney(form, "amount", false, "")
	if err != nil {
		return services.PaymentInput{}, err
	}
	return services.PaymentInput{
		Amount:    amount,
		Method:    core.PaymentMethod(formValue(form, "method")),
		Reference: formValue(form, "reference"),
	}, nil
}

// ParsePatientEdit reads the patient edit form.
func ParsePatientEdit(form url.Values) (services.PatientEdit, error) {
	e := services.PatientEdit{
		Name:          formValue(form, "name"),
		Gender:        core.Gender(formValue(form, "gender")),
		ContactNumber: formValue(form, "contact_number"),
		Email:         formValue(form, "email"),
		Address:       formValue(form, "address"),
	}
	age, err := strconv.Atoi(formValue(form, "age"))
	if err != nil {
		return e, &FormError{Field: "age", Message: services.MsgInvalidAge}
	}
	e.Age = age
	return e, nil
}

// ParseTestEdit reads the catalog test edit form.
func ParseTestEdit(form url.Values) (services.TestEdit, error) {
	price, err := parseMoney(form, "price", true, msgPriceRequired)
	if err != nil {
		return services.TestEdit{}, err
	}
	return services.TestEdit{
		Name:                formValue(form, "name"),
		Category:            formValue(form, "category"),
		Price:               price,
		Description:         formValue(form, "description"),
		NormalRange:         formValue(form, "normal_range"),
		PreparationRequired: formValue(form, "preparation_required"),
	}, nil
}

// userMessage extracts the message to show for a rejected form, and whether
// err is a user input error at all.
func userMessage(err error) (string, bool) {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Message, true
	}
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
