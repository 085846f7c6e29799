package skill

// ExportForest serializes the state into one ExportNode per root skill,
// each node carrying its own counters (not aggregated) and its children
// nested, everything in ascending-ID order.
func ExportForest(st *State) []ExportNode {
	children := ChildIndex(ParentMapOf(st.Skills))
	bySkill := st.CountersBySkill()
	forest := make([]ExportNode, 0)
	for _, root := range st.RootIDs() {
		forest = append(forest, exportNode(root, st, children, bySkill))
	}
	return forest
}

func exportNode(id int64, st *State, children map[int64][]int64, bySkill map[int64][]Counter) ExportNode {
	node := ExportNode{
		ID:       id,
		Name:     st.Skills[id].Name,
		Counters: make([]ExportCounter, 0, len(bySkill[id])),
		Children: make([]ExportNode, 0, len(children[id])),
	}
	for _, c := range bySkill[id] {
		node.Counters = append(node.Counters, ExportCounter{
			Name:   c.Name,
			Unit:   c.Unit,
			Value:  c.Value,
			Target: c.Target,
		})
	}
	for _, child := range children[id] {
		node.Children = append(node.Children, exportNode(child, st, children, bySkill))
	}
	return node
}

// importTrees adds the given trees to st, allocating fresh skill and
// counter IDs, and returns the created trees in export shape. Root-name
// uniqueness is checked for the top level of each tree only; nested
// children have no uniqueness constraint. st is mutated in place, so the
// caller must stage it and only persist on success.
func importTrees(st *State, trees []ImportNode) ([]ExportNode, error) {
	created := make([]ExportNode, 0, len(trees))
	for _, tree := range trees {
		if err := ValidateUniqueRootName(tree.Name, 0, st.Skills); err != nil {
			return nil, err
		}
		node, err := importNode(st, tree, nil)
		if err != nil {
			return nil, err
		}
		created = append(created, node)
	}
	return created, nil
}

func importNode(st *State, in ImportNode, parentID *int64) (ExportNode, error) {
	if err := validateName(in.Name); err != nil {
		return ExportNode{}, err
	}

	id := st.NextSkillID()
	st.Skills[id] = Skill{ID: id, Name: in.Name, ParentID: parentID}

	out := ExportNode{
		ID:       id,
		Name:     in.Name,
		Counters: make([]ExportCounter, 0, len(in.Counters)),
		Children: make([]ExportNode, 0, len(in.Children)),
	}

	for _, c := range in.Counters {
		if err := validateName(c.Name); err != nil {
			return ExportNode{}, err
		}
		if err := validateUnit(c.Unit); err != nil {
			return ExportNode{}, err
		}
		if c.Value < 0 {
			return ExportNode{}, invalidf("counter value must be non-negative")
		}
		if c.Target != nil && *c.Target < 0 {
			return ExportNode{}, invalidf("counter target must be non-negative")
		}
		counterID := st.NextCounterID()
		st.Counters[counterID] = Counter{
			ID:      counterID,
			SkillID: id,
			Name:    c.Name,
			Unit:    c.Unit,
			Value:   c.Value,
			Target:  c.Target,
		}
		out.Counters = append(out.Counters, c)
	}

	for _, child := range in.Children {
		childNode, err := importNode(st, child, &id)
		if err != nil {
			return ExportNode{}, err
		}
		out.Children = append(out.Children, childNode)
	}
	return out, nil
}
