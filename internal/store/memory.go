// Package store provides the persistence backends for the skill tree:
// an in-memory store, a JSON file store, and a SQLite store. All three
// implement whole-collection Load/Save semantics; Save replaces the
// persisted state atomically.
package store

import "skilltree/internal/skill"

// Memory keeps the state in process memory. Used by tests and anywhere a
// throwaway backend is enough. Load returns a copy so callers can mutate
// freely and only a Save commits.
type Memory struct {
	state *skill.State
}

func NewMemory() *Memory {
	return &Memory{state: skill.NewState()}
}

func (m *Memory) Load() (*skill.State, error) {
	return copyState(m.state), nil
}

func (m *Memory) Save(st *skill.State) error {
	m.state = copyState(st)
	return nil
}

func copyState(st *skill.State) *skill.State {
	out := skill.NewState()
	for id, s := range st.Skills {
		if s.ParentID != nil {
			p := *s.ParentID
			s.ParentID = &p
		}
		out.Skills[id] = s
	}
	for id, c := range st.Counters {
		if c.Unit != nil {
			u := *c.Unit
			c.Unit = &u
		}
		if c.Target != nil {
			t := *c.Target
			c.Target = &t
		}
		out.Counters[id] = c
	}
	return out
}
