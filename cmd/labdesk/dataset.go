package main

import (
	"context"
	"fmt"
	"strings"

	"labdesk/internal/demo"
	"labdesk/internal/grid"
	"labdesk/internal/ingest"
	"labdesk/internal/log"
	"labdesk/internal/store"
	"labdesk/internal/tables"
)

// loadDataset ingests the demo records. Rejected records are logged and
// left out; they never stop the process.
func loadDataset(logger *log.Logger, recorder ingest.AnomalyRecorder) ingest.Dataset {
	ds, rep := ingest.New(logger, recorder).Load(demo.Dataset())
	if err := rep.Err(); err != nil {
		logger.Warn("Some records were rejected",
			log.FieldOperation, log.OpIngest,
			"rejected", len(rep.Rejections),
			log.FieldError, err)
	}
	return ds
}

func viewOf[T any](ctx context.Context, g *grid.Grid[T], list func(context.Context) ([]T, error), query string, expandAll bool) (grid.View, error) {
	records, err := list(ctx)
	if err != nil {
		return grid.View{}, fmt.Errorf("list %s: %w", g.ID(), err)
	}
	st := grid.NewState()
	st.SetQuery(query)
	if expandAll {
		st.Expand(g.GroupKeys(records)...)
	}
	return g.Render(records, st), nil
}

// tableView renders one table outside of any session.
func tableView(ctx context.Context, st store.Store, id, query string, expandAll bool) (grid.View, error) {
	switch id {
	case tables.BookingsID:
		return viewOf(ctx, tables.Bookings(), st.ListBookings, query, expandAll)
	case tables.PatientsID:
		return viewOf(ctx, tables.Patients(), st.ListPatients, query, expandAll)
	case tables.TestsID:
		return viewOf(ctx, tables.Tests(), st.ListTests, query, expandAll)
	}
	return grid.View{}, fmt.Errorf("unknown table %q: want one of %s", id, strings.Join(tables.IDs(), ", "))
}
