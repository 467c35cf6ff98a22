package grid

import "sort"

// State is the interaction state of one table for one viewer: the search
// query and the set of expanded group keys. Groups start collapsed.
//
// State is not safe for concurrent use; Registry serializes access.
type State struct {
	Query    string
	expanded map[string]struct{}
	// fingerprint is the group key set the expansion was recorded against.
	fingerprint string
}

func NewState() *State {
	return &State{expanded: make(map[string]struct{})}
}

// SetQuery replaces the search query. The query is used as typed; surrounding
// whitespace is significant.
func (s *State) SetQuery(q string) { s.Query = q }

// Toggle flips the expansion of key and returns the new state. Toggling twice
// restores the original state.
func (s *State) Toggle(key string) bool {
	if s.IsExpanded(key) {
		s.Collapse(key)
		return false
	}
	s.Expand(key)
	return true
}

func (s *State) IsExpanded(key string) bool {
	_, ok := s.expanded[key]
	return ok
}

// Expand marks every key as expanded.
func (s *State) Expand(keys ...string) {
	if s.expanded == nil {
		s.expanded = make(map[string]struct{})
	}
	for _, k := range keys {
		s.expanded[k] = struct{}{}
	}
}

func (s *State) Collapse(keys ...string) {
	for _, k := range keys {
		delete(s.expanded, k)
	}
}

// ExpandedKeys returns the expanded group keys, sorted.
func (s *State) ExpandedKeys() []string {
	keys := make([]string, 0, len(s.expanded))
	for k := range s.expanded {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset clears the query and collapses every group.
func (s *State) Reset() {
	s.Query = ""
	s.expanded = make(map[string]struct{})
	s.fingerprint = ""
}

func (s *State) Clone() *State {
	c := &State{
		Query:       s.Query,
		expanded:    make(map[string]struct{}, len(s.expanded)),
		fingerprint: s.fingerprint,
	}
	for k := range s.expanded {
		c.expanded[k] = struct{}{}
	}
	return c
}

// observe records the group key fingerprint of the data being viewed. When it
// differs from the one the expansion was recorded against, the expansion is
// dropped; the query survives. It reports whether expansion was dropped.
func (s *State) observe(fingerprint string) bool {
	if s.fingerprint == fingerprint {
		return false
	}
	dropped := s.fingerprint != "" && len(s.expanded) > 0
	if s.fingerprint != "" {
		s.expanded = make(map[string]struct{})
	}
	s.fingerprint = fingerprint
	return dropped
}
