package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labdesk/internal/cache"
)

func newTestRegistry(ttl time.Duration) *Registry {
	return NewRegistry(cache.NewLRUCache[*State](16, ttl))
}

func TestRegistryKeepsStateAcrossRefresh(t *testing.T) {
	r := newTestRegistry(time.Minute)
	g := visitGrid(t, true)
	fp := g.Fingerprint(visits())

	r.Snapshot("s1", "visits", fp)
	r.Update("s1", "visits", func(st *State) {
		st.Toggle("2023-08-10")
		st.SetQuery("john")
	})

	// Same groups, different payload.
	recs := visits()
	recs[0].Name = "John Smithers"
	st := r.Snapshot("s1", "visits", g.Fingerprint(recs))
	assert.True(t, st.IsExpanded("2023-08-10"))
	assert.Equal(t, "john", st.Query)

	v := g.Render(recs, st)
	assert.Equal(t, []string{"V1"}, rowIDs(v))
}

func TestRegistryDropsExpansionOnRegroup(t *testing.T) {
	r := newTestRegistry(time.Minute)
	g := visitGrid(t, true)

	r.Snapshot("s1", "visits", g.Fingerprint(visits()))
	r.Update("s1", "visits", func(st *State) {
		st.Toggle("2023-08-10")
		st.SetQuery("smith")
	})

	st := r.Snapshot("s1", "visits", g.Fingerprint(visits()[:1]))
	assert.False(t, st.IsExpanded("2023-08-10"))
	assert.Equal(t, "smith", st.Query)
}

func TestRegistryIsolatesSessionsAndTables(t *testing.T) {
	r := newTestRegistry(time.Minute)
	r.Update("s1", "visits", func(st *State) { st.Toggle("k") })

	assert.True(t, r.Snapshot("s1", "visits", "").IsExpanded("k"))
	assert.False(t, r.Snapshot("s2", "visits", "").IsExpanded("k"))
	assert.False(t, r.Snapshot("s1", "other", "").IsExpanded("k"))
}

func TestRegistryReset(t *testing.T) {
	r := newTestRegistry(time.Minute)
	r.Update("s1", "visits", func(st *State) {
		st.Toggle("k")
		st.SetQuery("q")
	})
	r.Reset("s1", "visits")
	st := r.Snapshot("s1", "visits", "")
	assert.False(t, st.IsExpanded("k"))
	assert.Empty(t, st.Query)
}

func TestRegistryExpiresIdleState(t *testing.T) {
	r := newTestRegistry(20 * time.Millisecond)
	r.Update("s1", "visits", func(st *State) { st.Toggle("k") })
	time.Sleep(60 * time.Millisecond)
	assert.False(t, r.Snapshot("s1", "visits", "").IsExpanded("k"))
}

func TestSnapshotIsACopy(t *testing.T) {
	r := newTestRegistry(time.Minute)
	st := r.Snapshot("s1", "visits", "")
	st.Toggle("k")
	require.False(t, r.Snapshot("s1", "visits", "").IsExpanded("k"))
}
