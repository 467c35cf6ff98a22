package tables

import (
	"fmt"
	"strings"

	"labdesk/internal/core"
	"labdesk/internal/finance"
	"labdesk/internal/grid"
)

const (
	BookingsID = "bookings"
	PatientsID = "patients"
	TestsID    = "tests"
)

// IDs lists the dashboard tables in tab order.
func IDs() []string { return []string{BookingsID, PatientsID, TestsID} }

// Bookings builds the booking-wise table, grouped by booking date.
func Bookings() *grid.Grid[core.Booking] {
	return grid.MustNew(grid.Config[core.Booking]{
		ID: BookingsID,
		Columns: []grid.Column[core.Booking]{
			{ID: "id", Header: "Booking ID", Render: func(b core.Booking) grid.Cell { return strong(b.ID) }},
			{ID: "patientName", Header: "Patient Name", Render: func(b core.Booking) grid.Cell { return grid.Text(b.PatientName) }},
			{ID: "testNames", Header: "Tests", Render: func(b core.Booking) grid.Cell {
				return cell("badges", joinTests(b.TestNames), b.TestNames)
			}},
			{ID: "billing", Header: "Billing Details", Render: billingCell},
			{ID: "paymentDetails", Header: "Payment Details", Render: paymentDetailsCell},
			{ID: "paymentStatus", Header: "Payment Status", Render: func(b core.Booking) grid.Cell {
				return chip(paymentChip(finance.PaymentStatusOf(b.PayableAmount, b.Payments)))
			}},
			{ID: "bookingStatus", Header: "Booking Status", Render: func(b core.Booking) grid.Cell {
				return chip(bookingChip(b.Status))
			}},
			{ID: "actions", Header: "", Class: "w-actions", HTMLOnly: true, Render: func(b core.Booking) grid.Cell {
				return actionsCell(BookingActions(b.ID))
			}},
		},
		GroupBy: func(b core.Booking) string { return b.Date.String() },
		GroupHeader: func(key string) grid.Cell {
			long := longKey(key)
			return cell("group_booking_date",
				fmt.Sprintf("Booking Date: %s (Bookings made on this date)", long),
				dateHeader{Key: key, Long: long})
		},
		RowID:             func(b core.Booking) string { return b.ID },
		SearchPlaceholder: "Search bookings...",
		EmptyMessage:      "No bookings available",
		NoMatchesMessage:  "No bookings match your search",
	})
}

type dateHeader struct {
	Key  string
	Long string
}

// longKey renders a date group key in long form, or the raw key when it is
// not a date.
func longKey(key string) string {
	d, err := core.ParseDate(key)
	if err != nil {
		return key
	}
	return LongDate(d)
}

func billingCell(b core.Booking) grid.Cell {
	data := struct {
		Payable, Discount, Total string
	}{Payable: Rupees(b.PayableAmount), Total: Rupees(b.TotalAmount)}
	text := data.Payable
	if b.Discount.Paise > 0 {
		data.Discount = Rupees(b.Discount)
		text += " (-" + data.Discount + ")"
	}
	text += " Total: " + data.Total
	return cell("billing", text, data)
}

type MethodChip struct {
	Label  string
	Amount string
}

func paymentDetailsCell(b core.Booking) grid.Cell {
	l := finance.BookingLedger(b)
	data := struct {
		Paid, Payable string
		Methods       []MethodChip
		Due, Overpaid string
	}{Paid: Rupees(l.Paid), Payable: Rupees(l.Payable)}

	parts := []string{data.Paid + " of " + data.Payable}
	for _, m := range l.ByMethod {
		mc := MethodChip{Label: MethodLabel(m.Method), Amount: Rupees(m.Amount)}
		data.Methods = append(data.Methods, mc)
		parts = append(parts, mc.Label+": "+mc.Amount)
	}
	switch {
	case l.Due():
		data.Due = Rupees(l.Remaining)
		parts = append(parts, "Due: "+data.Due)
	case l.Overpaid():
		data.Overpaid = Rupees(l.Remaining.Abs())
		parts = append(parts, "Overpaid: "+data.Overpaid)
	}
	c := cell("payment_details", strings.Join(parts, "; "), data)
	if l.Overpaid() {
		c.Tone = string(finance.AnomalyTone(core.AnomalyOverpaid))
	}
	return c
}
