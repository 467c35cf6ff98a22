package grid

// Status tells renderers which of the mutually exclusive table states to
// draw.
type Status int

const (
	// StatusReady means at least one group has matching records.
	StatusReady Status = iota
	// StatusEmpty means there were no records at all, whatever the query.
	StatusEmpty
	// StatusNoMatches means records exist but the query filtered out every one.
	StatusNoMatches
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusEmpty:
		return "empty"
	case StatusNoMatches:
		return "no_matches"
	default:
		return "unknown"
	}
}

type Header struct {
	ID       string
	Title    string
	Class    string
	HTMLOnly bool
}

type Row struct {
	ID    string
	Cells []Cell
}

// Group is one partition after filtering. Rows is populated only when the
// group is expanded; Count is always the number of matching records.
type Group struct {
	Key        string
	Header     Cell
	ShowHeader bool
	Count      int
	CountLabel string
	Expanded   bool
	Rows       []Row
}

// View is a rendered table.
type View struct {
	TableID     string
	Placeholder string
	Query       string
	Grouped     bool
	Columns     []Header
	Status      Status
	// Message is set for StatusEmpty and StatusNoMatches.
	Message string
	Groups  []Group
	// Total is the number of input records, Matched the number that passed
	// the query.
	Total   int
	Matched int
}

// VisibleRows counts the rows actually drawn, across expanded groups.
func (v View) VisibleRows() int {
	n := 0
	for _, g := range v.Groups {
		n += len(g.Rows)
	}
	return n
}

// TextColumns returns the indexes of the columns text renderers draw.
func (v View) TextColumns() []int {
	idx := make([]int, 0, len(v.Columns))
	for i, c := range v.Columns {
		if !c.HTMLOnly {
			idx = append(idx, i)
		}
	}
	return idx
}

// Ready reports whether the view has rows or group headers to draw.
func (v View) Ready() bool { return v.Status == StatusReady }
