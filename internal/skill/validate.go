package skill

import "strings"

// ParentMap maps a skill ID to its parent ID. Root skills map to 0;
// IDs are allocated from 1, so 0 never collides with a real skill.
type ParentMap map[int64]int64

// ParentMapOf flattens the skill collection into a ParentMap.
func ParentMapOf(skills map[int64]Skill) ParentMap {
	parents := make(ParentMap, len(skills))
	for id, s := range skills {
		if s.ParentID != nil {
			parents[id] = *s.ParentID
		} else {
			parents[id] = 0
		}
	}
	return parents
}

// ValidateReparent checks that giving skillID the proposed parent keeps
// the parent-pointer graph a forest. parentID 0 (root) is always legal.
// The walk goes upward from the proposed parent: reaching skillID means
// the operation would create a cycle; revisiting a node without reaching
// skillID means the existing data already contains a cycle, reported as
// its own error rather than blamed on this operation.
func ValidateReparent(skillID, parentID int64, parents ParentMap) error {
	if parentID == 0 {
		return nil
	}
	if parentID == skillID {
		return conflictf("skill cannot be its own parent")
	}

	visited := make(map[int64]bool)
	for current := parentID; current != 0; current = parents[current] {
		if current == skillID {
			return conflictf("setting parent would create a cycle: skill %d is an ancestor of skill %d",
				skillID, parentID)
		}
		if visited[current] {
			return conflictf("existing cycle detected in skill tree at skill %d", current)
		}
		visited[current] = true
	}
	return nil
}

// ValidateUniqueRootName rejects a root name already used by another root,
// case-insensitively. self is excluded so a skill can keep its own name
// while being promoted to root; pass 0 when creating a new skill.
func ValidateUniqueRootName(name string, self int64, skills map[int64]Skill) error {
	for id, s := range skills {
		if id == self {
			continue
		}
		if s.ParentID == nil && strings.EqualFold(s.Name, name) {
			return conflictf("root skill with name '%s' already exists", name)
		}
	}
	return nil
}

const maxNameLen = 255
const maxUnitLen = 50

func validateName(name string) error {
	if len(name) < 1 || len(name) > maxNameLen {
		return invalidf("name must be between 1 and %d characters", maxNameLen)
	}
	return nil
}

func validateUnit(unit *string) error {
	if unit != nil && len(*unit) > maxUnitLen {
		return invalidf("unit must be at most %d characters", maxUnitLen)
	}
	return nil
}
