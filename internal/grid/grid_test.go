package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type price int64

func (p price) String() string { return fmt.Sprintf("%d.00", p) }

type visit struct {
	ID     string
	Name   string
	Day    string
	Tests  []string
	Amount price
}

func visits() []visit {
	return []visit{
		{ID: "V1", Name: "John Smith", Day: "2023-08-10", Tests: []string{"Blood Test"}, Amount: 2500},
		{ID: "V2", Name: "Sarah Johnson", Day: "2023-08-11", Tests: []string{"X-Ray", "MRI"}, Amount: 5000},
		{ID: "V3", Name: "Michael Brown", Day: "2023-08-10", Tests: []string{"Urinalysis"}, Amount: 1200},
		{ID: "V4", Name: "Emily Davis", Day: "2023-08-12", Tests: []string{"ECG"}, Amount: 1800},
	}
}

func visitGrid(t *testing.T, grouped bool) *Grid[visit] {
	t.Helper()
	cfg := Config[visit]{
		ID: "visits",
		Columns: []Column[visit]{
			{ID: "id", Header: "ID", Render: func(v visit) Cell { return Text(v.ID) }},
			{ID: "name", Header: "Name", Render: func(v visit) Cell { return Text(v.Name) }},
		},
		RowID: func(v visit) string { return v.ID },
	}
	if grouped {
		cfg.GroupBy = func(v visit) string { return v.Day }
		cfg.GroupHeader = func(k string) Cell { return Text("Day " + k) }
	}
	g, err := New(cfg)
	require.NoError(t, err)
	return g
}

func rowIDs(v View) []string {
	var ids []string
	for _, g := range v.Groups {
		for _, r := range g.Rows {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func TestRenderAllExpandedShowsEveryRecord(t *testing.T) {
	g := visitGrid(t, true)
	st := NewState()
	st.Expand(g.GroupKeys(visits())...)

	v := g.Render(visits(), st)
	require.Equal(t, StatusReady, v.Status)
	assert.ElementsMatch(t, []string{"V1", "V2", "V3", "V4"}, rowIDs(v))
	assert.Equal(t, 4, v.Matched)
	assert.Equal(t, 4, v.VisibleRows())
}

func TestGroupsKeepFirstSeenOrder(t *testing.T) {
	g := visitGrid(t, true)
	assert.Equal(t, []string{"2023-08-10", "2023-08-11", "2023-08-12"}, g.GroupKeys(visits()))

	v := g.Render(visits(), nil)
	require.Len(t, v.Groups, 3)
	assert.Equal(t, "2023-08-10", v.Groups[0].Key)
	assert.Equal(t, "Day 2023-08-10", v.Groups[0].Header.Text)
	assert.Equal(t, "2 items", v.Groups[0].CountLabel)
	assert.Equal(t, "1 item", v.Groups[1].CountLabel)
}

func TestGroupsStartCollapsed(t *testing.T) {
	g := visitGrid(t, true)
	v := g.Render(visits(), NewState())
	for _, grp := range v.Groups {
		assert.True(t, grp.ShowHeader)
		assert.False(t, grp.Expanded)
		assert.Empty(t, grp.Rows, "collapsed group %s renders no rows", grp.Key)
		assert.Positive(t, grp.Count)
	}
	assert.Zero(t, v.VisibleRows())
}

func TestSearchNarrowsToSingleRow(t *testing.T) {
	g := visitGrid(t, true)
	st := NewState()
	st.Expand(g.GroupKeys(visits())...)
	st.SetQuery("sarah")

	v := g.Render(visits(), st)
	require.Len(t, v.Groups, 1, "groups without matches are omitted")
	assert.Equal(t, "2023-08-11", v.Groups[0].Key)
	assert.Equal(t, 1, v.Groups[0].Count)
	assert.Equal(t, []string{"V2"}, rowIDs(v))
}

func TestSearchCoversEveryAttribute(t *testing.T) {
	g := visitGrid(t, false)
	tests := []struct {
		query string
		want  []string
	}{
		{"BLOOD", []string{"V1"}},
		{"x-ray,mri", []string{"V2"}},
		{"1200.00", []string{"V3"}},
		{"2023-08-1", []string{"V1", "V2", "V3", "V4"}},
		{"v4", []string{"V4"}},
		{"davis ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			st := NewState()
			st.SetQuery(tt.query)
			assert.Equal(t, tt.want, rowIDs(g.Render(visits(), st)))
		})
	}
}

func TestHeaderCountReflectsFilter(t *testing.T) {
	g := visitGrid(t, true)
	st := NewState()
	st.SetQuery("smith")
	v := g.Render(visits(), st)
	require.Len(t, v.Groups, 1)
	assert.Equal(t, 1, v.Groups[0].Count)
	assert.Equal(t, "1 item", v.Groups[0].CountLabel)
	assert.Empty(t, v.Groups[0].Rows)
}

func TestEmptyStatePrecedence(t *testing.T) {
	g := visitGrid(t, true)

	st := NewState()
	st.SetQuery("anything")
	v := g.Render(nil, st)
	assert.Equal(t, StatusEmpty, v.Status)
	assert.Equal(t, DefaultEmptyMessage, v.Message)

	v = g.Render(visits(), st)
	assert.Equal(t, StatusNoMatches, v.Status)
	assert.Equal(t, DefaultNoMatchesMessage, v.Message)
	assert.Empty(t, v.Groups)
	assert.Equal(t, 4, v.Total)
}

func TestCustomMessages(t *testing.T) {
	g := MustNew(Config[visit]{
		ID:                "visits",
		Columns:           []Column[visit]{{ID: "id", Render: func(v visit) Cell { return Text(v.ID) }}},
		SearchPlaceholder: "Search visits...",
		EmptyMessage:      "No visits",
		NoMatchesMessage:  "No matching visits",
	})
	assert.Equal(t, "Search visits...", g.Render(nil, nil).Placeholder)
	assert.Equal(t, "No visits", g.Render(nil, nil).Message)
	st := NewState()
	st.SetQuery("zzz")
	assert.Equal(t, "No matching visits", g.Render(visits(), st).Message)
}

func TestUngroupedGridHasOneOpenGroup(t *testing.T) {
	g := visitGrid(t, false)
	v := g.Render(visits(), nil)
	require.Len(t, v.Groups, 1)
	assert.False(t, v.Groups[0].ShowHeader)
	assert.True(t, v.Groups[0].Expanded)
	assert.Len(t, v.Groups[0].Rows, 4)
	assert.Empty(t, g.Fingerprint(visits()))
}

func TestEmptyGroupKeyIsAlwaysExpanded(t *testing.T) {
	g := visitGrid(t, true)
	recs := append(visits(), visit{ID: "V5", Name: "Undated"})
	v := g.Render(recs, nil)
	last := v.Groups[len(v.Groups)-1]
	assert.Equal(t, "", last.Key)
	assert.False(t, last.ShowHeader)
	assert.True(t, last.Expanded)
	assert.Equal(t, []string{"V5"}, rowIDs(v))
}

func TestToggleIsIdempotentInPairs(t *testing.T) {
	st := NewState()
	assert.True(t, st.Toggle("2023-08-10"))
	assert.True(t, st.IsExpanded("2023-08-10"))
	assert.False(t, st.Toggle("2023-08-10"))
	assert.False(t, st.IsExpanded("2023-08-10"))
	assert.Empty(t, st.ExpandedKeys())
}

func TestNewRejectsBadColumns(t *testing.T) {
	render := func(v visit) Cell { return Text(v.ID) }

	_, err := New(Config[visit]{ID: "x", Columns: []Column[visit]{{ID: "a", Render: render}, {ID: "a", Render: render}}})
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New(Config[visit]{ID: "x", Columns: []Column[visit]{{ID: "", Render: render}}})
	assert.ErrorIs(t, err, ErrEmptyColumnID)

	_, err = New(Config[visit]{ID: "x", Columns: []Column[visit]{{ID: "a"}}})
	assert.ErrorIs(t, err, ErrNilRender)

	_, err = New(Config[visit]{ID: "x"})
	assert.ErrorIs(t, err, ErrNoColumns)

	assert.Panics(t, func() { MustNew(Config[visit]{ID: "x"}) })
}

func TestFingerprintIgnoresOrder(t *testing.T) {
	g := visitGrid(t, true)
	recs := visits()
	reversed := []visit{recs[3], recs[2], recs[1], recs[0]}
	assert.Equal(t, g.Fingerprint(recs), g.Fingerprint(reversed))
	assert.NotEqual(t, g.Fingerprint(recs), g.Fingerprint(recs[:2]))
}

func TestCellRichEscapesText(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt;", string(Text("a <b>").Rich()))
	assert.Equal(t, "<b>x</b>", string(Cell{Text: "x", HTML: "<b>x</b>"}.Rich()))
}
