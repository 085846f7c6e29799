package skill

import (
	"encoding/json"
	"fmt"
)

// Skill is one node in the hierarchy. ParentID is nil for root skills.
type Skill struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

// Counter is a numeric progress metric owned by exactly one skill.
type Counter struct {
	ID      int64    `json:"id"`
	SkillID int64    `json:"skill_id"`
	Name    string   `json:"name"`
	Unit    *string  `json:"unit"`
	Value   float64  `json:"value"`
	Target  *float64 `json:"target"`
}

// CounterSummary is the aggregated total for one (name, unit) group
// across a subtree. Target is nil when no counter in the group has one.
type CounterSummary struct {
	Name   string   `json:"name"`
	Unit   *string  `json:"unit"`
	Total  float64  `json:"total"`
	Target *float64 `json:"target"`
	Count  int      `json:"count"`
}

// Summary is a skill decorated with subtree aggregates, recursively.
type Summary struct {
	Skill
	CounterTotals       []CounterSummary `json:"counter_totals"`
	TotalDescendants    int              `json:"total_descendants"`
	DirectChildrenCount int              `json:"direct_children_count"`
	Children            []Summary        `json:"children"`
}

// TreeNode is a skill with its children nested, for the tree view.
type TreeNode struct {
	Skill
	Children []TreeNode `json:"children"`
}

// ExportCounter is a counter stripped of its IDs for the export document.
type ExportCounter struct {
	Name   string   `json:"name"`
	Unit   *string  `json:"unit"`
	Value  float64  `json:"value"`
	Target *float64 `json:"target"`
}

// ExportNode is one skill in the export document, counters attached to
// that node only (not aggregated).
type ExportNode struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Counters []ExportCounter `json:"counters"`
	Children []ExportNode    `json:"children"`
}

// ImportNode is an export node without IDs; fresh IDs are assigned on import.
type ImportNode struct {
	Name     string          `json:"name"`
	Counters []ExportCounter `json:"counters"`
	Children []ImportNode    `json:"children"`
}

// CreateSkill is the payload for creating a root or child skill.
type CreateSkill struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	ParentID *int64 `json:"parent_id"`
}

// UpdateSkill is the rename/reparent payload. Both fields are optional;
// an absent field leaves the current value untouched.
type UpdateSkill struct {
	Name     *string     `json:"name" binding:"omitempty,min=1,max=255"`
	ParentID ParentPatch `json:"parent_id"`
}

// CreateCounter is the payload for attaching a counter to a skill.
type CreateCounter struct {
	Name   string   `json:"name" binding:"required,min=1,max=255"`
	Unit   *string  `json:"unit" binding:"omitempty,max=50"`
	Value  float64  `json:"value" binding:"gte=0"`
	Target *float64 `json:"target" binding:"omitempty,gte=0"`
}

// UpdateCounter is the partial-update payload for a counter.
type UpdateCounter struct {
	Name   *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Unit   *string  `json:"unit" binding:"omitempty,max=50"`
	Value  *float64 `json:"value" binding:"omitempty,gte=0"`
	Target *float64 `json:"target" binding:"omitempty,gte=0"`
}

// ParentPatch is the tri-state parent_id field of an update request:
// absent (leave unchanged), null or -1 (promote to root), or a skill ID.
// The -1 form is the wire encoding older clients use for "set to root".
type ParentPatch struct {
	present bool
	root    bool
	id      int64
}

// PatchRoot returns a patch that promotes the skill to a root.
func PatchRoot() ParentPatch { return ParentPatch{present: true, root: true} }

// PatchParent returns a patch that moves the skill under the given parent.
func PatchParent(id int64) ParentPatch { return ParentPatch{present: true, id: id} }

// Present reports whether the field appeared in the request at all.
func (p ParentPatch) Present() bool { return p.present }

// Root reports whether the patch promotes the skill to a root.
func (p ParentPatch) Root() bool { return p.root }

// ID returns the requested parent ID; only meaningful when Present and not Root.
func (p ParentPatch) ID() int64 { return p.id }

func (p *ParentPatch) UnmarshalJSON(data []byte) error {
	p.present = true
	if string(data) == "null" {
		p.root = true
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parent_id must be an integer or null: %w", err)
	}
	if v == -1 {
		p.root = true
		return nil
	}
	p.id = v
	return nil
}

func (p ParentPatch) MarshalJSON() ([]byte, error) {
	if !p.present || p.root {
		return []byte("null"), nil
	}
	return json.Marshal(p.id)
}
