package skill

// BuildTree nests the flat skill collection into one TreeNode per root,
// roots and children both in ascending-ID order.
func BuildTree(st *State) []TreeNode {
	children := ChildIndex(ParentMapOf(st.Skills))
	forest := make([]TreeNode, 0)
	for _, root := range st.RootIDs() {
		forest = append(forest, buildTreeNode(root, st, children))
	}
	return forest
}

func buildTreeNode(id int64, st *State, children map[int64][]int64) TreeNode {
	node := TreeNode{
		Skill:    st.Skills[id],
		Children: make([]TreeNode, 0, len(children[id])),
	}
	for _, child := range children[id] {
		node.Children = append(node.Children, buildTreeNode(child, st, children))
	}
	return node
}
