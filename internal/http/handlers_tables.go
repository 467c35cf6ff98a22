package http

import (
	"context"
	"net/http"
	"slices"

	"labdesk/internal/core"
	"labdesk/internal/grid"
	"labdesk/internal/log"
	"labdesk/internal/store"
	"labdesk/internal/tables"
)

// table hides the record type of a grid so handlers can treat the three
// dashboard tables alike.
type table interface {
	// view loads the records, reconciles the session's state with them,
	// applies update (if any) and renders.
	view(ctx context.Context, reg *grid.Registry, session string, update func(keys []string, st *grid.State) error) (grid.View, error)
}

type gridTable[T any] struct {
	grid *grid.Grid[T]
	list func(context.Context) ([]T, error)
}

func (t gridTable[T]) view(ctx context.Context, reg *grid.Registry, session string, update func([]string, *grid.State) error) (grid.View, error) {
	records, err := t.list(ctx)
	if err != nil {
		return grid.View{}, err
	}
	id := t.grid.ID()
	st := reg.Snapshot(session, id, t.grid.Fingerprint(records))
	if update != nil {
		keys := t.grid.GroupKeys(records)
		var uerr error
		next := reg.Update(session, id, func(s *grid.State) { uerr = update(keys, s) })
		if uerr != nil {
			return grid.View{}, uerr
		}
		st = next
	}
	return t.grid.Render(records, st), nil
}

func newTables(st store.Store) map[string]table {
	return map[string]table{
		tables.BookingsID: gridTable[core.Booking]{grid: tables.Bookings(), list: st.ListBookings},
		tables.PatientsID: gridTable[core.Patient]{grid: tables.Patients(), list: st.ListPatients},
		tables.TestsID:    gridTable[core.Test]{grid: tables.Tests(), list: st.ListTests},
	}
}

// tab is one dashboard tab.
type tab struct {
	ID    string
	Label string
	View  grid.View
}

var tabLabels = map[string]string{
	tables.BookingsID: "Booking-wise",
	tables.PatientsID: "Patient-wise",
	tables.TestsID:    "Test-wise",
}

// renderTable loads and renders one table for the requesting session.
func (s *Server) renderTable(r *http.Request, session, id string, update func([]string, *grid.State) error) (grid.View, error) {
	t, ok := s.tables[id]
	if !ok {
		return grid.View{}, store.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	v, err := t.view(ctx, s.registry, session, update)
	if err != nil {
		return grid.View{}, err
	}
	if s.metrics != nil {
		s.metrics.GridRendered(id, v.VisibleRows())
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Table rendered",
		log.FieldOperation, log.OpRender,
		log.FieldTable, id,
		log.FieldQuery, v.Query,
		log.FieldRows, v.VisibleRows())
	return v, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)
	var tabs []tab
	for _, id := range tables.IDs() {
		v, err := s.renderTable(r, session, id, nil)
		if err != nil {
			s.fail(w, r, "Table", err)
			return
		}
		tabs = append(tabs, tab{ID: id, Label: tabLabels[id], View: v})
	}
	s.render(w, r, NewHTMXResponse(), "index.html", struct{ Tabs []tab }{tabs})
}

// handleTable serves the grid partial. A q parameter, even an empty one,
// replaces the session's query; without it the stored query is kept.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	var update func([]string, *grid.State) error
	if q := r.URL.Query(); q.Has("q") {
		query := q.Get("q")
		update = func(_ []string, st *grid.State) error {
			st.SetQuery(query)
			return nil
		}
	}
	s.serveTable(w, r, sessionID(w, r), NewHTMXResponse(), update)
}

// handleToggleGroup flips one group. A key the current data no longer has,
// as sent by a stale page, changes nothing and the fresh table is returned.
func (s *Server) handleToggleGroup(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	s.serveTable(w, r, sessionID(w, r), NewHTMXResponse(), func(keys []string, st *grid.State) error {
		if !slices.Contains(keys, key) {
			log.FromContext(r.Context()).DebugContext(r.Context(), "Stale group toggle ignored",
				log.FieldTable, r.PathValue("table"),
				"group", key)
			return nil
		}
		st.Toggle(key)
		return nil
	})
}

func (s *Server) handleResetTable(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)
	s.registry.Reset(session, r.PathValue("table"))
	s.serveTable(w, r, session, NewHTMXResponse().TriggerFormReset(), nil)
}

func (s *Server) serveTable(w http.ResponseWriter, r *http.Request, session string, b *HTMXResponseBuilder, update func([]string, *grid.State) error) {
	v, err := s.renderTable(r, session, r.PathValue("table"), update)
	if err != nil {
		s.fail(w, r, "Table", err)
		return
	}
	s.render(w, r, b, "table", v)
}
