package skill

import "sort"

// State is the full in-memory snapshot a store loads and saves: the flat
// skill and counter collections keyed by ID. It replaces the module-level
// global maps of earlier revisions; every operation receives it explicitly.
type State struct {
	Skills   map[int64]Skill
	Counters map[int64]Counter
}

// NewState returns an empty state. Next IDs allocate from 1.
func NewState() *State {
	return &State{
		Skills:   make(map[int64]Skill),
		Counters: make(map[int64]Counter),
	}
}

// NextSkillID returns max existing skill ID + 1, or 1 when empty.
func (st *State) NextSkillID() int64 {
	var max int64
	for id := range st.Skills {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// NextCounterID returns max existing counter ID + 1, or 1 when empty.
func (st *State) NextCounterID() int64 {
	var max int64
	for id := range st.Counters {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// SkillIDs returns all skill IDs in ascending order.
func (st *State) SkillIDs() []int64 {
	ids := make([]int64, 0, len(st.Skills))
	for id := range st.Skills {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CounterIDs returns all counter IDs in ascending order.
func (st *State) CounterIDs() []int64 {
	ids := make([]int64, 0, len(st.Counters))
	for id := range st.Counters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// RootIDs returns the IDs of all root skills in ascending order.
func (st *State) RootIDs() []int64 {
	var roots []int64
	for id, s := range st.Skills {
		if s.ParentID == nil {
			roots = append(roots, id)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	return roots
}

// CountersBySkill indexes counters by owning skill, each list in
// ascending counter-ID order.
func (st *State) CountersBySkill() map[int64][]Counter {
	index := make(map[int64][]Counter)
	for _, id := range st.CounterIDs() {
		c := st.Counters[id]
		index[c.SkillID] = append(index[c.SkillID], c)
	}
	return index
}
