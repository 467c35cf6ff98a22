package tables

import (
	"fmt"
	"strings"

	"labdesk/internal/core"
	"labdesk/internal/finance"
	"labdesk/internal/grid"
)

// historyPreview is how many test records the history column lists.
const historyPreview = 2

// Patients builds the patient-wise table. It is not grouped.
func Patients() *grid.Grid[core.Patient] {
	return grid.MustNew(grid.Config[core.Patient]{
		ID: PatientsID,
		Columns: []grid.Column[core.Patient]{
			{ID: "id", Header: "Patient ID", Render: func(p core.Patient) grid.Cell { return strong(p.ID) }},
			{ID: "name", Header: "Patient Details", Render: patientDetailsCell},
			{ID: "contactInfo", Header: "Contact Information", Render: func(p core.Patient) grid.Cell {
				data := struct{ Phone, Email string }{p.ContactNumber, p.Email}
				return cell("contact", p.ContactNumber+", "+p.Email, data)
			}},
			{ID: "address", Header: "Address", Render: func(p core.Patient) grid.Cell {
				return cell("address", p.Address, p.Address)
			}},
			{ID: "testHistory", Header: "Test History", Render: testHistoryCell},
			{ID: "latestBooking", Header: "Latest Booking", Render: latestBookingCell},
			{ID: "actions", Header: "", Class: "w-actions", HTMLOnly: true, Render: func(p core.Patient) grid.Cell {
				return actionsCell(PatientActions(p.ID))
			}},
		},
		RowID:             func(p core.Patient) string { return p.ID },
		SearchPlaceholder: "Search patients...",
		EmptyMessage:      "No patients available",
		NoMatchesMessage:  "No patients match your search",
	})
}

func patientDetailsCell(p core.Patient) grid.Cell {
	data := struct {
		Name, Gender string
		Age          int
	}{p.Name, p.Gender.Short(), p.Age}
	return cell("patient_details", fmt.Sprintf("%s (%s, %d years)", p.Name, data.Gender, p.Age), data)
}

type HistoryItem struct {
	BookingID string
	Tests     string
	Tone      finance.Tone
}

// HistorySummary is the condensed test history shown in the patients table.
type HistorySummary struct {
	Count   string
	Preview []HistoryItem
	More    int
}

// SummarizeHistory returns "n Tests", the first two records as stored and
// the number of records left out.
func SummarizeHistory(history []core.TestRecord) HistorySummary {
	s := HistorySummary{Count: plural(len(history), "Test", "Tests")}
	for i, r := range history {
		if i == historyPreview {
			s.More = len(history) - historyPreview
			break
		}
		s.Preview = append(s.Preview, HistoryItem{
			BookingID: r.BookingID,
			Tests:     joinTests(r.TestNames),
			Tone:      finance.BookingTone(r.Status),
		})
	}
	return s
}

func (s HistorySummary) String() string {
	parts := []string{s.Count}
	for _, it := range s.Preview {
		parts = append(parts, it.BookingID+" "+it.Tests)
	}
	if s.More > 0 {
		parts = append(parts, fmt.Sprintf("+%d more tests...", s.More))
	}
	return strings.Join(parts, "; ")
}

func testHistoryCell(p core.Patient) grid.Cell {
	s := SummarizeHistory(p.TestHistory)
	return cell("test_history", s.String(), s)
}

func latestBookingCell(p core.Patient) grid.Cell {
	rec, ok := p.LatestRecord()
	if !ok {
		return cell("latest_booking", "No bookings", struct{ Found bool }{})
	}
	data := struct {
		Found     bool
		BookingID string
		Chip      Chip
		Date      string
	}{true, rec.BookingID, bookingChip(rec.Status), ShortDate(rec.Date)}
	c := cell("latest_booking", fmt.Sprintf("%s %s %s", rec.BookingID, data.Chip.Label, data.Date), data)
	c.Tone = string(data.Chip.Tone)
	return c
}
