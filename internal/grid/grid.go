// Package grid presents any homogeneous slice of records as a searchable,
// optionally grouped table.
//
// A Grid is configured once with its columns and grouping, then rendered on
// every interaction against the current records and a State. Rendering is
// pure: it returns a View value that HTML templates, the terminal renderer
// and the sheet exporter all consume.
package grid

import (
	"errors"
	"fmt"
	"hash/fnv"
	"html/template"
	"sort"
	"strings"
)

const (
	DefaultSearchPlaceholder = "Search..."
	DefaultEmptyMessage      = "No data available"
	DefaultNoMatchesMessage  = "No results found"
)

var (
	ErrDuplicateColumn = errors.New("duplicate column id")
	ErrEmptyColumnID   = errors.New("empty column id")
	ErrNilRender       = errors.New("column has no render function")
	ErrNoColumns       = errors.New("grid has no columns")
)

// Cell is one rendered value. Text is always set; HTML, when present, is the
// rich form used by the web templates. Tone is an optional style token.
type Cell struct {
	Text string
	HTML template.HTML
	Tone string
}

// Text builds a plain cell.
func Text(s string) Cell { return Cell{Text: s} }

// Rich returns the HTML form of the cell, escaping Text when no HTML was set.
func (c Cell) Rich() template.HTML {
	if c.HTML != "" {
		return c.HTML
	}
	return template.HTML(template.HTMLEscapeString(c.Text))
}

// Column describes one table column. Render receives the whole record so a
// cell may combine several attributes.
type Column[T any] struct {
	ID     string
	Header string
	Class  string
	Render func(T) Cell
	// HTMLOnly marks interactive columns, such as action menus, that text
	// renderers leave out.
	HTMLOnly bool
}

// Config configures a Grid.
type Config[T any] struct {
	// ID identifies the logical table; it keys per-session state.
	ID      string
	Columns []Column[T]

	// GroupBy partitions records by the returned key. Nil means ungrouped.
	GroupBy func(T) string
	// GroupHeader renders a group's header. Nil renders the raw key.
	GroupHeader func(key string) Cell
	// RowID optionally identifies a row in the rendered view.
	RowID func(T) string

	SearchPlaceholder string
	EmptyMessage      string
	NoMatchesMessage  string
}

// Grid is a configured table. It holds no records and no interaction state,
// so a single Grid may be shared by every session.
type Grid[T any] struct {
	cfg Config[T]
}

// New validates cfg and returns a Grid. Column ids must be non-empty and
// unique, and every column needs a render function.
func New[T any](cfg Config[T]) (*Grid[T], error) {
	if len(cfg.Columns) == 0 {
		return nil, fmt.Errorf("grid %q: %w", cfg.ID, ErrNoColumns)
	}
	seen := make(map[string]bool, len(cfg.Columns))
	for i, c := range cfg.Columns {
		if c.ID == "" {
			return nil, fmt.Errorf("grid %q column %d: %w", cfg.ID, i, ErrEmptyColumnID)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("grid %q: %w: %q", cfg.ID, ErrDuplicateColumn, c.ID)
		}
		if c.Render == nil {
			return nil, fmt.Errorf("grid %q column %q: %w", cfg.ID, c.ID, ErrNilRender)
		}
		seen[c.ID] = true
	}
	if cfg.SearchPlaceholder == "" {
		cfg.SearchPlaceholder = DefaultSearchPlaceholder
	}
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = DefaultEmptyMessage
	}
	if cfg.NoMatchesMessage == "" {
		cfg.NoMatchesMessage = DefaultNoMatchesMessage
	}
	return &Grid[T]{cfg: cfg}, nil
}

// MustNew is like New but panics on an invalid configuration. It is meant for
// tables defined at package initialization.
func MustNew[T any](cfg Config[T]) *Grid[T] {
	g, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid[T]) ID() string { return g.cfg.ID }

// Grouped reports whether the grid partitions its records.
func (g *Grid[T]) Grouped() bool { return g.cfg.GroupBy != nil }

// Headers returns the column headers in display order.
func (g *Grid[T]) Headers() []Header {
	out := make([]Header, len(g.cfg.Columns))
	for i, c := range g.cfg.Columns {
		out[i] = Header{ID: c.ID, Title: c.Header, Class: c.Class, HTMLOnly: c.HTMLOnly}
	}
	return out
}

type partition[T any] struct {
	key   string
	items []T
}

// partition splits records by group key in first-seen order.
func (g *Grid[T]) partition(records []T) []partition[T] {
	if g.cfg.GroupBy == nil {
		return []partition[T]{{key: "", items: records}}
	}
	index := make(map[string]int)
	var parts []partition[T]
	for _, rec := range records {
		key := g.cfg.GroupBy(rec)
		i, ok := index[key]
		if !ok {
			i = len(parts)
			index[key] = i
			parts = append(parts, partition[T]{key: key})
		}
		parts[i].items = append(parts[i].items, rec)
	}
	return parts
}

// GroupKeys returns the distinct group keys of records in first-seen order.
// An ungrouped grid has no keys.
func (g *Grid[T]) GroupKeys(records []T) []string {
	if g.cfg.GroupBy == nil {
		return nil
	}
	parts := g.partition(records)
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		keys = append(keys, p.key)
	}
	return keys
}

// Fingerprint identifies the set of group keys present in records,
// independent of order. State registries use it to detect a regrouping.
func (g *Grid[T]) Fingerprint(records []T) string {
	keys := g.GroupKeys(records)
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.Join(keys, "\x00")))
	return fmt.Sprintf("%016x", h.Sum64())
}

// Render filters, groups and renders records under the given state. A nil
// state renders with an empty query and every group collapsed.
func (g *Grid[T]) Render(records []T, st *State) View {
	if st == nil {
		st = NewState()
	}
	v := View{
		TableID:     g.cfg.ID,
		Placeholder: g.cfg.SearchPlaceholder,
		Query:       st.Query,
		Grouped:     g.Grouped(),
		Columns:     g.Headers(),
		Total:       len(records),
	}
	if len(records) == 0 {
		v.Status = StatusEmpty
		v.Message = g.cfg.EmptyMessage
		return v
	}

	m := newMatcher(st.Query)
	for _, p := range g.partition(records) {
		var matched []T
		for _, rec := range p.items {
			if m.match(rec) {
				matched = append(matched, rec)
			}
		}
		if len(matched) == 0 {
			continue
		}
		labeled := v.Grouped && p.key != ""
		grp := Group{
			Key:        p.key,
			ShowHeader: labeled,
			Count:      len(matched),
			CountLabel: countLabel(len(matched)),
			Expanded:   !labeled || st.IsExpanded(p.key),
		}
		if labeled {
			grp.Header = g.groupHeader(p.key)
		}
		if grp.Expanded {
			grp.Rows = make([]Row, 0, len(matched))
			for _, rec := range matched {
				grp.Rows = append(grp.Rows, g.row(rec))
			}
		}
		v.Matched += len(matched)
		v.Groups = append(v.Groups, grp)
	}
	if len(v.Groups) == 0 {
		v.Status = StatusNoMatches
		v.Message = g.cfg.NoMatchesMessage
		return v
	}
	v.Status = StatusReady
	return v
}

func (g *Grid[T]) groupHeader(key string) Cell {
	if g.cfg.GroupHeader == nil {
		return Text(key)
	}
	return g.cfg.GroupHeader(key)
}

func (g *Grid[T]) row(rec T) Row {
	r := Row{Cells: make([]Cell, len(g.cfg.Columns))}
	if g.cfg.RowID != nil {
		r.ID = g.cfg.RowID(rec)
	}
	for i, c := range g.cfg.Columns {
		r.Cells[i] = c.Render(rec)
	}
	return r
}

func countLabel(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
