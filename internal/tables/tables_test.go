package tables

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labdesk/internal/core"
	"labdesk/internal/grid"
)

func booking(t *testing.T, id string, day int, total, discount int64, status core.BookingStatus, payments ...core.Payment) core.Booking {
	t.Helper()
	b, err := core.NewBooking(id, "PT001", "John Smith", core.NewDate(2023, 8, day),
		[]string{"Blood Test", "Urinalysis"}, core.Rupees(total), core.Rupees(discount), status)
	require.NoError(t, err)
	b.Payments = append(b.Payments, payments...)
	return b
}

func payment(id string, rupees int64, m core.PaymentMethod) core.Payment {
	return core.Payment{ID: id, Amount: core.Rupees(rupees), Method: m, Date: core.NewDate(2023, 8, 10)}
}

// cellText returns the text of column col in the first row of the view.
func cellText(t *testing.T, v grid.View, col string) grid.Cell {
	t.Helper()
	for i, h := range v.Columns {
		if h.ID == col {
			for _, g := range v.Groups {
				if len(g.Rows) > 0 {
					return g.Rows[0].Cells[i]
				}
			}
			t.Fatalf("view has no rows")
		}
	}
	t.Fatalf("no column %q", col)
	return grid.Cell{}
}

func expandAll[T any](g *grid.Grid[T], records []T) *grid.State {
	st := grid.NewState()
	st.Expand(g.GroupKeys(records)...)
	return st
}

func TestRupees(t *testing.T) {
	tests := []struct {
		in   core.Money
		want string
	}{
		{core.Rupees(2500), "₹2,500"},
		{core.Rupees(22500), "₹22,500"},
		{core.Money{Paise: 250050}, "₹2,500.50"},
		{core.Money{Paise: -50000}, "-₹500"},
		{core.Money{}, "₹0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rupees(tt.in))
	}
}

func TestDates(t *testing.T) {
	d := core.NewDate(2023, 8, 10)
	assert.Equal(t, "August 10, 2023", LongDate(d))
	assert.Equal(t, "8/10/2023", ShortDate(d))
}

func TestBookingsTable(t *testing.T) {
	g := Bookings()
	records := []core.Booking{
		booking(t, "BK001", 10, 2500, 500, core.StatusCompleted, payment("P1", 1000, core.MethodCash), payment("P2", 1000, core.MethodUPI)),
		booking(t, "BK002", 11, 3000, 0, core.StatusInProgress, payment("P3", 1500, core.MethodCard)),
	}
	v := g.Render(records, expandAll(g, records))
	require.Equal(t, grid.StatusReady, v.Status)
	require.Len(t, v.Groups, 2)

	var titles []string
	for _, h := range v.Columns {
		titles = append(titles, h.Title)
	}
	assert.Equal(t, []string{"Booking ID", "Patient Name", "Tests", "Billing Details", "Payment Details", "Payment Status", "Booking Status", ""}, titles)
	assert.Equal(t, "Booking Date: August 10, 2023 (Bookings made on this date)", v.Groups[0].Header.Text)
	assert.Contains(t, string(v.Groups[0].Header.HTML), `datetime="2023-08-10"`)

	assert.Equal(t, "Blood Test, Urinalysis", cellText(t, v, "testNames").Text)
	assert.Equal(t, "₹2,000 (-₹500) Total: ₹2,500", cellText(t, v, "billing").Text)
	assert.Equal(t, "₹2,000 of ₹2,000; Cash: ₹1,000; UPI: ₹1,000", cellText(t, v, "paymentDetails").Text)

	status := cellText(t, v, "paymentStatus")
	assert.Equal(t, "Paid", status.Text)
	assert.Equal(t, "success", status.Tone)
	assert.Contains(t, string(status.HTML), "tone-success")

	bs := cellText(t, v, "bookingStatus")
	assert.Equal(t, "Completed", bs.Text)

	assert.Equal(t, "Search bookings...", v.Placeholder)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, v.TextColumns())
}

func TestBookingsSearchAndMessages(t *testing.T) {
	g := Bookings()
	assert.Equal(t, "No bookings available", g.Render(nil, nil).Message)

	records := []core.Booking{booking(t, "BK001", 10, 2500, 500, core.StatusCompleted)}
	st := expandAll(g, records)
	st.SetQuery("urinal")
	assert.Equal(t, 1, g.Render(records, st).VisibleRows())

	st.SetQuery("2000.00")
	assert.Equal(t, 1, g.Render(records, st).VisibleRows(), "payable amount is searchable as typed")

	st.SetQuery("cardiology")
	v := g.Render(records, st)
	assert.Equal(t, grid.StatusNoMatches, v.Status)
	assert.Equal(t, "No bookings match your search", v.Message)
}

func TestPaymentDetailsDueAndOverpaid(t *testing.T) {
	g := Bookings()

	due := []core.Booking{booking(t, "BK003", 11, 4500, 500, core.StatusBooked)}
	v := g.Render(due, expandAll(g, due))
	assert.Equal(t, "₹0 of ₹4,000; Due: ₹4,000", cellText(t, v, "paymentDetails").Text)
	assert.Equal(t, "Unpaid", cellText(t, v, "paymentStatus").Text)
	assert.Equal(t, "danger", cellText(t, v, "paymentStatus").Tone)

	over := []core.Booking{booking(t, "BK009", 12, 1000, 0, core.StatusCompleted, payment("P9", 1500, core.MethodCash))}
	v = g.Render(over, expandAll(g, over))
	pd := cellText(t, v, "paymentDetails")
	assert.Equal(t, "₹1,500 of ₹1,000; Cash: ₹1,500; Overpaid: ₹500", pd.Text)
	assert.Equal(t, "danger", pd.Tone)
	assert.Contains(t, string(pd.HTML), "Overpaid: ₹500")
}

func patient(history ...core.TestRecord) core.Patient {
	return core.Patient{
		ID: "PT001", Name: "John Smith", Gender: core.GenderMale, Age: 45,
		ContactNumber: "+91 98765 43210", Email: "john.smith@example.com",
		Address: "123 Main St, Bangalore", TestHistory: history,
	}
}

func record(id, bookingID string, day int, status core.BookingStatus, tests ...string) core.TestRecord {
	return core.TestRecord{ID: id, BookingID: bookingID, Date: core.NewDate(2023, 8, day), TestNames: tests, Status: status}
}

func TestPatientsTable(t *testing.T) {
	g := Patients()
	assert.False(t, g.Grouped())

	p := patient(
		record("TH001", "BK001", 10, core.StatusCompleted, "Blood Test", "Urinalysis"),
		record("TH002", "BK006", 15, core.StatusInProgress, "ECG"),
		record("TH003", "BK008", 12, core.StatusBooked, "MRI"),
	)
	v := g.Render([]core.Patient{p}, nil)
	require.Equal(t, 1, v.VisibleRows())

	assert.Equal(t, "John Smith (M, 45 years)", cellText(t, v, "name").Text)
	assert.Equal(t, "+91 98765 43210, john.smith@example.com", cellText(t, v, "contactInfo").Text)
	assert.Equal(t, "3 Tests; BK001 Blood Test, Urinalysis; BK006 ECG; +1 more tests...", cellText(t, v, "testHistory").Text)

	latest := cellText(t, v, "latestBooking")
	assert.Equal(t, "BK006 In Progress 8/15/2023", latest.Text)
	assert.Equal(t, "warning", latest.Tone)
}

func TestPatientWithoutHistory(t *testing.T) {
	g := Patients()
	v := g.Render([]core.Patient{patient()}, nil)
	assert.Equal(t, "No bookings", cellText(t, v, "latestBooking").Text)
	assert.Equal(t, "0 Tests", cellText(t, v, "testHistory").Text)

	one := SummarizeHistory([]core.TestRecord{record("TH1", "BK1", 1, core.StatusBooked, "X-Ray")})
	assert.Equal(t, "1 Test", one.Count)
	assert.Zero(t, one.More)
}

func TestTestsTable(t *testing.T) {
	g := Tests()
	tests := []core.Test{
		{ID: "T001", Name: "Complete Blood Count", Category: "Hematology", Date: core.NewDate(2023, 8, 1),
			Price: core.Rupees(500), BookingCount: 45, CompletedCount: 38, InProgressCount: 5, PendingCount: 2,
			TotalRevenue: core.Rupees(22500)},
	}
	v := g.Render(tests, expandAll(g, tests))
	require.Len(t, v.Groups, 1)
	assert.Equal(t, "August 1, 2023", v.Groups[0].Header.Text)
	assert.Equal(t, "Complete Blood Count (Hematology)", cellText(t, v, "name").Text)
	assert.Equal(t, "84% complete (38 completed, 5 in progress, 2 pending)", cellText(t, v, "progress").Text)
	assert.Equal(t, "45 total bookings, ₹500 per test", cellText(t, v, "bookingStats").Text)
	assert.Equal(t, "₹22,500 (Avg: ₹500 per booking)", cellText(t, v, "revenue").Text)
	assert.Equal(t, "No tests match your search", func() string {
		st := grid.NewState()
		st.SetQuery("zzz")
		return g.Render(tests, st).Message
	}())
}

func TestTestsProgressFlagsImpossibleCounts(t *testing.T) {
	g := Tests()
	tests := []core.Test{{ID: "T9", Name: "X", Category: "Y", Date: core.NewDate(2023, 8, 1), BookingCount: 2, CompletedCount: 2, PendingCount: 1}}
	c := cellText(t, g.Render(tests, expandAll(g, tests)), "progress")
	assert.True(t, strings.HasSuffix(c.Text, "[Counts exceed bookings]"))
	assert.Equal(t, "danger", c.Tone)
}

func TestActionMenus(t *testing.T) {
	acts := BookingActions("BK 1")
	require.Len(t, acts, 5)
	assert.Equal(t, "/bookings/BK%201?mode=edit", acts[0].Href)
	assert.Equal(t, "/bookings/BK%201", acts[2].Href)
	assert.True(t, acts[3].Disabled, "printing is not offered")
	assert.True(t, acts[4].Destructive)

	var labels []string
	for _, a := range PatientActions("PT001") {
		labels = append(labels, a.Label)
	}
	assert.Equal(t, []string{"View Profile", "Edit Patient", "Test History", "New Booking", "Print Reports", "Delete Patient"}, labels)
	assert.Len(t, TestActions("T001"), 4)

	html := string(actionsCell(TestActions("T001")).HTML)
	assert.Contains(t, html, `hx-get="/tests/T001"`)
	assert.Contains(t, html, "View Analytics")
	assert.Equal(t, 2, strings.Count(html, "disabled"))
}

func TestBookingDetails(t *testing.T) {
	b := booking(t, "BK001", 10, 2500, 500, core.StatusCompleted, payment("P1", 1000, core.MethodCash))
	b.Payments[0].Reference = "UPI123456"
	d := NewBookingDetails(b)
	assert.True(t, d.CanAddPayment)
	assert.True(t, d.CanPrintReports)
	assert.Equal(t, "₹1,000", d.Remaining)
	assert.Equal(t, "₹500", d.Discount)
	assert.Equal(t, "UPI123456", d.Payments[0].Reference)
	assert.Equal(t, "Partial", d.Payment.Label)
	assert.Empty(t, d.Anomalies)
	assert.Equal(t, "danger", string(d.RemainingTone()))

	settled := NewBookingDetails(booking(t, "BK002", 10, 1000, 0, core.StatusBooked, payment("P2", 1000, core.MethodCard)))
	assert.False(t, settled.CanAddPayment)
	assert.False(t, settled.CanPrintReports)
	assert.Equal(t, "-", settled.Payments[0].Reference)
	assert.Equal(t, "success", string(settled.RemainingTone()))

	over := NewBookingDetails(booking(t, "BK003", 10, 1000, 0, core.StatusBooked, payment("P3", 1200, core.MethodCard)))
	require.Len(t, over.Anomalies, 1)
	assert.Equal(t, core.AnomalyOverpaid, over.Anomalies[0].Kind)
	assert.False(t, over.CanAddPayment)
}

func TestPatientProfile(t *testing.T) {
	p := patient(
		record("TH001", "BK001", 10, core.StatusCompleted, "Blood Test"),
		record("TH002", "BK006", 15, core.StatusInProgress, "ECG"),
	)
	prof := NewPatientProfile(p)
	assert.Equal(t, "Male", prof.GenderLabel)
	require.NotNil(t, prof.Latest)
	assert.Equal(t, "BK006", prof.Latest.Record.BookingID)
	require.Len(t, prof.History, 2)
	assert.Equal(t, "BK001", prof.History[1].Record.BookingID)

	assert.Nil(t, NewPatientProfile(patient()).Latest)
}

func TestTestDetails(t *testing.T) {
	d := NewTestDetails(core.Test{ID: "T001", BookingCount: 8, CompletedCount: 1, TotalRevenue: core.Rupees(7)})
	assert.Equal(t, 13, d.Progress.CompletionPercent)
	assert.Equal(t, "₹0.88", d.Average)
	assert.Empty(t, d.Anomalies)
}
