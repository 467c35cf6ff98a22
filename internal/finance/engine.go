// Package finance derives payment and progress figures from lab records.
//
// Every function is pure and total over validated input. Malformed records
// are rejected at ingestion, so nothing here returns an error. Amounts
// are paise.
package finance

import (
	"strings"

	"labdesk/internal/core"
)

// PaymentStatus classifies what has been paid against what is owed. It is
// distinct from the booking's workflow status.
type PaymentStatus string

const (
	Unpaid  PaymentStatus = "unpaid"
	Partial PaymentStatus = "partial"
	Paid    PaymentStatus = "paid"
)

// PaymentStatuses lists every payment status.
func PaymentStatuses() []PaymentStatus {
	return []PaymentStatus{Unpaid, Partial, Paid}
}

// Label is the capitalized display text.
func (s PaymentStatus) Label() string {
	return capitalize(string(s))
}

// AmountPaid sums the payment amounts. An empty sequence is zero.
func AmountPaid(payments []core.Payment) core.Money {
	var total int64
	for _, p := range payments {
		total += p.Amount.Paise
	}
	return core.Money{Paise: total}
}

// AmountRemaining is payable minus paid. A negative result means the booking
// was overpaid; it is returned as is and flagged by callers.
func AmountRemaining(payable core.Money, payments []core.Payment) core.Money {
	return payable.Sub(AmountPaid(payments))
}

// PaymentStatusOf classifies payments against the payable amount. Paying
// exactly the payable amount counts as paid.
func PaymentStatusOf(payable core.Money, payments []core.Payment) PaymentStatus {
	paid := AmountPaid(payments)
	switch {
	case paid.Paise == 0:
		return Unpaid
	case paid.Paise >= payable.Paise:
		return Paid
	default:
		return Partial
	}
}

// PaymentsByMethod sums amounts per method. Methods with no payments have no
// entry in the result.
func PaymentsByMethod(payments []core.Payment) map[core.PaymentMethod]core.Money {
	out := make(map[core.PaymentMethod]core.Money)
	for _, p := range payments {
		out[p.Method] = out[p.Method].Add(p.Amount)
	}
	return out
}

// MethodAmount is one entry of a per-method breakdown.
type MethodAmount struct {
	Method core.PaymentMethod
	Amount core.Money
}

// PaymentsByMethodOrdered returns the per-method sums in the order each
// method first appears among the payments.
func PaymentsByMethodOrdered(payments []core.Payment) []MethodAmount {
	sums := PaymentsByMethod(payments)
	out := make([]MethodAmount, 0, len(sums))
	seen := make(map[core.PaymentMethod]bool, len(sums))
	for _, p := range payments {
		if seen[p.Method] {
			continue
		}
		seen[p.Method] = true
		out = append(out, MethodAmount{Method: p.Method, Amount: sums[p.Method]})
	}
	return out
}

// BookingStatusLabel maps a booking status to its display text.
func BookingStatusLabel(s core.BookingStatus) string {
	if s == core.StatusInProgress {
		return "In Progress"
	}
	return capitalize(string(s))
}

// CompletionPercent returns round(100*completed/total) with halves rounded
// up. A zero total yields 0.
func CompletionPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(roundDiv(100*int64(completed), int64(total)))
}

// AverageRevenuePerBooking returns round(revenue/count) in paise. A zero
// count yields 0.
func AverageRevenuePerBooking(revenue core.Money, bookingCount int) core.Money {
	if bookingCount <= 0 {
		return core.Money{}
	}
	return core.Money{Paise: roundDiv(revenue.Paise, int64(bookingCount))}
}

// roundDiv divides rounding halves away from zero, matching the usual
// half-up rounding for the non-negative values the ledger deals with.
func roundDiv(n, d int64) int64 {
	if n < 0 {
		return -((-n*2 + d) / (2 * d))
	}
	return (n*2 + d) / (2 * d)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
