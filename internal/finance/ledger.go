package finance

import "labdesk/internal/core"

// Ledger is the derived billing picture of one booking, shared by the
// booking table, the detail view and ledger events.
type Ledger struct {
	Payable   core.Money
	Paid      core.Money
	Remaining core.Money
	Status    PaymentStatus
	ByMethod  []MethodAmount
}

// BookingLedger derives the ledger of b.
func BookingLedger(b core.Booking) Ledger {
	return Ledger{
		Payable:   b.PayableAmount,
		Paid:      AmountPaid(b.Payments),
		Remaining: AmountRemaining(b.PayableAmount, b.Payments),
		Status:    PaymentStatusOf(b.PayableAmount, b.Payments),
		ByMethod:  PaymentsByMethodOrdered(b.Payments),
	}
}

// Due reports an outstanding balance.
func (l Ledger) Due() bool { return l.Remaining.Paise > 0 }

// Overpaid reports more paid than payable.
func (l Ledger) Overpaid() bool { return l.Remaining.Paise < 0 }

// Progress is the derived picture of one catalog test.
type Progress struct {
	CompletionPercent int
	AverageRevenue    core.Money
	Completed         int
	InProgress        int
	Pending           int
	Bookings          int
	CountsExceed      bool
}

// TestProgress derives the progress figures of t.
func TestProgress(t core.Test) Progress {
	return Progress{
		CompletionPercent: CompletionPercent(t.CompletedCount, t.BookingCount),
		AverageRevenue:    AverageRevenuePerBooking(t.TotalRevenue, t.BookingCount),
		Completed:         t.CompletedCount,
		InProgress:        t.InProgressCount,
		Pending:           t.PendingCount,
		Bookings:          t.BookingCount,
		CountsExceed:      t.CountsExceedBookings(),
	}
}
