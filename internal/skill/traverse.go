package skill

import "sort"

// Ancestors returns the set of ancestor IDs of id, excluding id itself.
// Unknown IDs yield an empty set. The walk stops if it revisits a node,
// so corrupted data with a cycle cannot hang it.
func Ancestors(id int64, parents ParentMap) map[int64]bool {
	ancestors := make(map[int64]bool)
	for current := parents[id]; current != 0; current = parents[current] {
		if ancestors[current] {
			break
		}
		ancestors[current] = true
	}
	return ancestors
}

// Descendants returns the set of descendant IDs of id, excluding id itself.
func Descendants(id int64, parents ParentMap) map[int64]bool {
	return collectDescendants(id, ChildIndex(parents))
}

// ChildIndex inverts a ParentMap into parent -> ascending child IDs.
// Roots are listed under key 0. Built once and reused through a whole
// recursive traversal instead of rescanning the collection per level.
func ChildIndex(parents ParentMap) map[int64][]int64 {
	index := make(map[int64][]int64)
	for id, parent := range parents {
		index[parent] = append(index[parent], id)
	}
	for parent := range index {
		ids := index[parent]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return index
}

func collectDescendants(id int64, children map[int64][]int64) map[int64]bool {
	descendants := make(map[int64]bool)
	var walk func(int64)
	walk = func(current int64) {
		for _, child := range children[current] {
			if descendants[child] {
				continue
			}
			descendants[child] = true
			walk(child)
		}
	}
	walk(id)
	return descendants
}

// TraverseDFS returns id followed by its descendants depth-first,
// children in ascending-ID order, so the sequence is deterministic.
func TraverseDFS(id int64, parents ParentMap) []int64 {
	children := ChildIndex(parents)
	seen := map[int64]bool{id: true}
	order := []int64{id}
	var walk func(int64)
	walk = func(current int64) {
		for _, child := range children[current] {
			if seen[child] {
				continue
			}
			seen[child] = true
			order = append(order, child)
			walk(child)
		}
	}
	walk(id)
	return order
}

// TraverseBFS returns id followed by its descendants level by level,
// each node's children enqueued in ascending-ID order.
func TraverseBFS(id int64, parents ParentMap) []int64 {
	children := ChildIndex(parents)
	seen := map[int64]bool{id: true}
	order := []int64{}
	queue := []int64{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)
		for _, child := range children[current] {
			if seen[child] {
				continue
			}
			seen[child] = true
			queue = append(queue, child)
		}
	}
	return order
}
