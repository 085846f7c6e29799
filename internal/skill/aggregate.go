package skill

import "sort"

// Summarize aggregates the subtree rooted at id: counter totals grouped
// by (name, unit), descendant and child counts, and child summaries
// recursively. The child index and counter index are built once and
// shared through the whole recursion.
func Summarize(id int64, st *State) Summary {
	children := ChildIndex(ParentMapOf(st.Skills))
	return summarizeNode(id, st, children, st.CountersBySkill())
}

// SummarizeRoots summarizes every root skill, in ascending-ID order.
func SummarizeRoots(st *State) []Summary {
	children := ChildIndex(ParentMapOf(st.Skills))
	bySkill := st.CountersBySkill()
	summaries := make([]Summary, 0)
	for _, id := range st.RootIDs() {
		summaries = append(summaries, summarizeNode(id, st, children, bySkill))
	}
	return summaries
}

func summarizeNode(id int64, st *State, children map[int64][]int64, bySkill map[int64][]Counter) Summary {
	descendants := collectDescendants(id, children)

	s := Summary{
		Skill:               st.Skills[id],
		TotalDescendants:    len(descendants),
		DirectChildrenCount: len(children[id]),
		CounterTotals:       counterTotals(id, descendants, bySkill),
		Children:            make([]Summary, 0, len(children[id])),
	}
	for _, child := range children[id] {
		s.Children = append(s.Children, summarizeNode(child, st, children, bySkill))
	}
	return s
}

// counterTotals groups the counters of {id} ∪ descendants by (name, unit).
// A nil unit and "" are the same group; the group's unit is emitted as nil
// when empty. Target sums only counters that have one, staying nil when
// none do.
func counterTotals(id int64, descendants map[int64]bool, bySkill map[int64][]Counter) []CounterSummary {
	type groupKey struct {
		name string
		unit string
	}

	members := []int64{id}
	for d := range descendants {
		members = append(members, d)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

	groups := make(map[groupKey]*CounterSummary)
	var order []groupKey
	for _, skillID := range members {
		for _, c := range bySkill[skillID] {
			unit := ""
			if c.Unit != nil {
				unit = *c.Unit
			}
			key := groupKey{name: c.Name, unit: unit}
			g, ok := groups[key]
			if !ok {
				g = &CounterSummary{Name: c.Name}
				if unit != "" {
					u := unit
					g.Unit = &u
				}
				groups[key] = g
				order = append(order, key)
			}
			g.Total += c.Value
			g.Count++
			if c.Target != nil {
				if g.Target == nil {
					g.Target = new(float64)
				}
				*g.Target += *c.Target
			}
		}
	}

	totals := make([]CounterSummary, 0, len(order))
	for _, key := range order {
		totals = append(totals, *groups[key])
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Name != totals[j].Name {
			return totals[i].Name < totals[j].Name
		}
		ui, uj := "", ""
		if totals[i].Unit != nil {
			ui = *totals[i].Unit
		}
		if totals[j].Unit != nil {
			uj = *totals[j].Unit
		}
		return ui < uj
	})
	return totals
}
