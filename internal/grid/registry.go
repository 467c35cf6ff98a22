package grid

import "sync"

// StateStore is the backing store of a Registry. *cache.LRUCache[*State]
// satisfies it; its TTL bounds how long an idle viewer's state is kept.
type StateStore interface {
	Get(key string) (*State, bool)
	Set(key string, s *State)
	Delete(key string)
}

// Registry keeps one State per (session, table) pair.
//
// State lives until it is explicitly reset, until the store expires or evicts
// it, or, for the expansion set only, until the table's group key set changes.
// Refreshing the records without regrouping leaves state untouched.
type Registry struct {
	mu    sync.Mutex
	store StateStore
}

func NewRegistry(store StateStore) *Registry {
	return &Registry{store: store}
}

func stateKey(session, table string) string {
	return session + "\x00" + table
}

// load returns the stored state or a fresh one. Callers hold r.mu.
func (r *Registry) load(key string) *State {
	if st, ok := r.store.Get(key); ok && st != nil {
		return st
	}
	return NewState()
}

// Snapshot returns a copy of the state for session and table, applying the
// reset policy against fingerprint. Pass the result to Grid.Render.
func (r *Registry) Snapshot(session, table, fingerprint string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stateKey(session, table)
	st := r.load(key)
	st.observe(fingerprint)
	r.store.Set(key, st)
	return st.Clone()
}

// Update applies fn to the stored state and returns a copy of the result.
func (r *Registry) Update(session, table string, fn func(*State)) *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stateKey(session, table)
	st := r.load(key)
	fn(st)
	r.store.Set(key, st)
	return st.Clone()
}

// Reset discards the state for session and table.
func (r *Registry) Reset(session, table string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.Delete(stateKey(session, table))
}
