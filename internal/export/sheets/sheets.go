// Package sheets exports rendered table views to Google Sheets, one tab per
// table.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"labdesk/internal/grid"
	"labdesk/internal/log"
)

// TabWriter replaces the contents of spreadsheet tabs.
type TabWriter interface {
	// EnsureTab creates the tab when it does not exist yet.
	EnsureTab(ctx context.Context, title string) error
	// Replace clears the tab and writes rows starting at A1.
	Replace(ctx context.Context, title string, rows [][]any) error
}

// Table is one view to export.
type Table struct {
	Name string
	View grid.View
}

type Exporter struct {
	writer TabWriter
	prefix string
	logger *log.Logger
}

func NewExporter(w TabWriter, prefix string, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Discard()
	}
	return &Exporter{writer: w, prefix: prefix, logger: logger.WithComponent(log.ComponentExport)}
}

// Export writes every table concurrently and fails if any write fails.
func (e *Exporter) Export(ctx context.Context, tables []Table) error {
	if len(tables) == 0 {
		return errors.New("nothing to export")
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range tables {
		g.Go(func() error {
			start := time.Now()
			tab := TabName(e.prefix, t.Name)
			if err := e.writer.EnsureTab(ctx, tab); err != nil {
				return fmt.Errorf("tab %q: %w", tab, err)
			}
			rows := Rows(t.View)
			if err := e.writer.Replace(ctx, tab, rows); err != nil {
				return fmt.Errorf("write %q: %w", tab, err)
			}
			e.logger.InfoContext(ctx, "Table exported",
				log.FieldOperation, log.OpExport,
				log.FieldTable, t.Name,
				log.FieldRows, len(rows),
				log.FieldDuration, time.Since(start).Milliseconds())
			return nil
		})
	}
	return g.Wait()
}

// TabName is "<prefix> <table>", or just the table name without a prefix.
func TabName(prefix, table string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return table
	}
	return prefix + " " + table
}

// Rows flattens a view into sheet rows: the column titles, then for each
// group its header line (when it has one) followed by its rows. Only
// columns with a text form are written. Empty and no-match views are the
// title row and the view's message.
func Rows(v grid.View) [][]any {
	cols := v.TextColumns()
	title := make([]any, len(cols))
	for i, c := range cols {
		title[i] = v.Columns[c].Title
	}
	rows := [][]any{title}

	if !v.Ready() {
		return append(rows, []any{v.Message})
	}
	for _, g := range v.Groups {
		if g.ShowHeader {
			rows = append(rows, []any{g.Header.Text, g.CountLabel})
		}
		for _, r := range g.Rows {
			row := make([]any, len(cols))
			for i, c := range cols {
				if c < len(r.Cells) {
					row[i] = r.Cells[c].Text
				} else {
					row[i] = ""
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}
