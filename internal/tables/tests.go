package tables

import (
	"fmt"

	"labdesk/internal/core"
	"labdesk/internal/finance"
	"labdesk/internal/grid"
)

// Tests builds the test-wise table, grouped by the date the test was listed.
func Tests() *grid.Grid[core.Test] {
	return grid.MustNew(grid.Config[core.Test]{
		ID: TestsID,
		Columns: []grid.Column[core.Test]{
			{ID: "id", Header: "Test ID", Render: func(t core.Test) grid.Cell { return strong(t.ID) }},
			{ID: "name", Header: "Test Details", Render: func(t core.Test) grid.Cell {
				data := struct{ Name, Category string }{t.Name, t.Category}
				return cell("test_details", t.Name+" ("+t.Category+")", data)
			}},
			{ID: "progress", Header: "Progress", Render: progressCell},
			{ID: "bookingStats", Header: "Booking Stats", Render: func(t core.Test) grid.Cell {
				data := struct {
					Count int
					Price string
				}{t.BookingCount, Rupees(t.Price)}
				return cell("booking_stats", fmt.Sprintf("%d total bookings, %s per test", t.BookingCount, data.Price), data)
			}},
			{ID: "revenue", Header: "Revenue", Render: func(t core.Test) grid.Cell {
				p := finance.TestProgress(t)
				data := struct{ Total, Average string }{Rupees(t.TotalRevenue), Rupees(p.AverageRevenue)}
				return cell("revenue", fmt.Sprintf("%s (Avg: %s per booking)", data.Total, data.Average), data)
			}},
			{ID: "actions", Header: "", Class: "w-actions", HTMLOnly: true, Render: func(t core.Test) grid.Cell {
				return actionsCell(TestActions(t.ID))
			}},
		},
		GroupBy: func(t core.Test) string { return t.Date.String() },
		GroupHeader: func(key string) grid.Cell {
			long := longKey(key)
			return cell("group_listing_date", long, dateHeader{Key: key, Long: long})
		},
		RowID:             func(t core.Test) string { return t.ID },
		SearchPlaceholder: "Search tests...",
		EmptyMessage:      "No tests available",
		NoMatchesMessage:  "No tests match your search",
	})
}

func progressCell(t core.Test) grid.Cell {
	p := finance.TestProgress(t)
	data := struct {
		Percent                        int
		Completed, InProgress, Pending int
		Flag                           string
	}{p.CompletionPercent, p.Completed, p.InProgress, p.Pending, ""}
	text := fmt.Sprintf("%d%% complete (%d completed, %d in progress, %d pending)",
		p.CompletionPercent, p.Completed, p.InProgress, p.Pending)
	if p.CountsExceed {
		data.Flag = core.AnomalyCountsExceedBookings.Label()
		text += " [" + data.Flag + "]"
	}
	c := cell("progress", text, data)
	if p.CountsExceed {
		c.Tone = string(finance.AnomalyTone(core.AnomalyCountsExceedBookings))
	}
	return c
}
