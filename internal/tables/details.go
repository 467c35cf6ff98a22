package tables

import (
	"labdesk/internal/core"
	"labdesk/internal/finance"
)

// PaymentRow is one line of a booking's payment history.
type PaymentRow struct {
	ID        string
	Date      string
	Amount    string
	Method    string
	Reference string
}

// BookingDetails is the booking detail view.
type BookingDetails struct {
	Booking       core.Booking
	Ledger        finance.Ledger
	LongDate      string
	Status        Chip
	Payment       Chip
	Total         string
	Discount      string // empty when there is no discount
	Payable       string
	Paid          string
	Remaining     string
	Methods       []MethodChip
	Payments      []PaymentRow
	Anomalies     []core.Anomaly
	MethodChoices []core.PaymentMethod

	CanAddPayment   bool
	CanPrintReports bool
}

func NewBookingDetails(b core.Booking) BookingDetails {
	l := finance.BookingLedger(b)
	d := BookingDetails{
		Booking:         b,
		Ledger:          l,
		LongDate:        LongDate(b.Date),
		Status:          bookingChip(b.Status),
		Payment:         paymentChip(l.Status),
		Total:           Rupees(b.TotalAmount),
		Payable:         Rupees(l.Payable),
		Paid:            Rupees(l.Paid),
		Remaining:       Rupees(l.Remaining),
		MethodChoices:   core.PaymentMethods(),
		CanAddPayment:   l.Due(),
		CanPrintReports: b.Status == core.StatusCompleted,
	}
	if b.Discount.Paise > 0 {
		d.Discount = Rupees(b.Discount)
	}
	for _, m := range l.ByMethod {
		d.Methods = append(d.Methods, MethodChip{Label: MethodLabel(m.Method), Amount: Rupees(m.Amount)})
	}
	for _, p := range b.Payments {
		ref := p.Reference
		if ref == "" {
			ref = "-"
		}
		d.Payments = append(d.Payments, PaymentRow{
			ID:        p.ID,
			Date:      ShortDate(p.Date),
			Amount:    Rupees(p.Amount),
			Method:    MethodLabel(p.Method),
			Reference: ref,
		})
	}
	if l.Overpaid() {
		d.Anomalies = append(d.Anomalies, core.Anomaly{
			Kind:     core.AnomalyOverpaid,
			RecordID: b.ID,
			Detail:   "paid " + d.Paid + " against " + d.Payable,
		})
	}
	return d
}

// RemainingTone colors the remaining balance: danger while money is owed or
// overpaid, success once settled.
func (d BookingDetails) RemainingTone() finance.Tone {
	if d.Ledger.Remaining.IsZero() {
		return finance.ToneSuccess
	}
	return finance.ToneDanger
}

// TestDetails is the catalog test detail view.
type TestDetails struct {
	Test      core.Test
	Progress  finance.Progress
	LongDate  string
	Price     string
	Revenue   string
	Average   string
	Anomalies []core.Anomaly
}

func NewTestDetails(t core.Test) TestDetails {
	p := finance.TestProgress(t)
	d := TestDetails{
		Test:     t,
		Progress: p,
		LongDate: LongDate(t.Date),
		Price:    Rupees(t.Price),
		Revenue:  Rupees(t.TotalRevenue),
		Average:  Rupees(p.AverageRevenue),
	}
	if p.CountsExceed {
		d.Anomalies = append(d.Anomalies, core.Anomaly{
			Kind:     core.AnomalyCountsExceedBookings,
			RecordID: t.ID,
			Detail:   "status counts add up to more than the booking count",
		})
	}
	return d
}

// HistoryRow is one record of a patient's test history as displayed.
type HistoryRow struct {
	Record core.TestRecord
	Date   string
	Tests  string
	Status Chip
}

// PatientProfile is the patient detail view.
type PatientProfile struct {
	Patient     core.Patient
	GenderLabel string
	Latest      *HistoryRow
	History     []HistoryRow
}

func NewPatientProfile(p core.Patient) PatientProfile {
	prof := PatientProfile{Patient: p, GenderLabel: GenderLabel(p.Gender)}
	for _, r := range p.HistoryNewestFirst() {
		prof.History = append(prof.History, HistoryRow{
			Record: r,
			Date:   ShortDate(r.Date),
			Tests:  joinTests(r.TestNames),
			Status: bookingChip(r.Status),
		})
	}
	if len(prof.History) > 0 {
		latest := prof.History[0]
		prof.Latest = &latest
	}
	return prof
}
