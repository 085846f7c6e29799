package skill

import (
	"fmt"
	"sort"
	"sync"
)

// Store supplies the persisted state at the start of an operation and
// persists the result afterward. Save replaces the whole collection
// atomically; a failed save must propagate, never be swallowed.
type Store interface {
	Load() (*State, error)
	Save(*State) error
}

// Service is the hierarchy engine bound to a store. A mutex serializes
// operations: each one performs multiple reads and a final write against
// the loaded state without re-validating interleaved changes, so it needs
// exclusive access for its duration.
type Service struct {
	mu    sync.Mutex
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateRoot creates a skill with no parent. Root names are unique
// case-insensitively.
func (s *Service) CreateRoot(req CreateSkill) (Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return Skill{}, err
	}
	if req.ParentID != nil {
		return Skill{}, invalidf("cannot create a subskill here: create it under its parent instead")
	}
	if err := validateName(req.Name); err != nil {
		return Skill{}, err
	}
	if err := ValidateUniqueRootName(req.Name, 0, st.Skills); err != nil {
		return Skill{}, err
	}

	created := Skill{ID: st.NextSkillID(), Name: req.Name}
	st.Skills[created.ID] = created
	if err := s.save(st); err != nil {
		return Skill{}, err
	}
	return created, nil
}

// CreateChild creates a skill under parentID. If the request body carries
// its own parent_id it must match parentID.
func (s *Service) CreateChild(parentID int64, req CreateSkill) (Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return Skill{}, err
	}
	if _, ok := st.Skills[parentID]; !ok {
		return Skill{}, notFoundf("skill with id %d not found", parentID)
	}
	if req.ParentID != nil && *req.ParentID != parentID {
		return Skill{}, invalidf("parent_id %d in body does not match parent %d", *req.ParentID, parentID)
	}
	if err := validateName(req.Name); err != nil {
		return Skill{}, err
	}

	id := st.NextSkillID()
	// A fresh ID cannot be an ancestor of anything, but the same checker
	// path runs anyway so malformed data is caught in one place.
	if err := ValidateReparent(id, parentID, ParentMapOf(st.Skills)); err != nil {
		return Skill{}, err
	}

	parent := parentID
	created := Skill{ID: id, Name: req.Name, ParentID: &parent}
	st.Skills[id] = created
	if err := s.save(st); err != nil {
		return Skill{}, err
	}
	return created, nil
}

// GetSkill returns a skill by ID.
func (s *Service) GetSkill(id int64) (Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return Skill{}, err
	}
	sk, ok := st.Skills[id]
	if !ok {
		return Skill{}, notFoundf("skill with id %d not found", id)
	}
	return sk, nil
}

// ListSkills returns all skills in ascending-ID order.
func (s *Service) ListSkills() ([]Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	skills := make([]Skill, 0, len(st.Skills))
	for _, id := range st.SkillIDs() {
		skills = append(skills, st.Skills[id])
	}
	return skills, nil
}

// UpdateSkill renames and/or reparents a skill. An absent parent_id leaves
// the parent unchanged; null or -1 promotes to root; a concrete ID must
// reference an existing skill and pass the cycle checker.
func (s *Service) UpdateSkill(id int64, req UpdateSkill) (Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return Skill{}, err
	}
	sk, ok := st.Skills[id]
	if !ok {
		return Skill{}, notFoundf("skill with id %d not found", id)
	}

	name := sk.Name
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return Skill{}, err
		}
		name = *req.Name
	}

	parent := sk.ParentID
	if req.ParentID.Present() {
		if req.ParentID.Root() {
			if err := ValidateUniqueRootName(name, id, st.Skills); err != nil {
				return Skill{}, err
			}
			parent = nil
		} else {
			target := req.ParentID.ID()
			if _, ok := st.Skills[target]; !ok {
				return Skill{}, invalidf("parent skill with id %d does not exist", target)
			}
			if err := ValidateReparent(id, target, ParentMapOf(st.Skills)); err != nil {
				return Skill{}, err
			}
			parent = &target
		}
	}

	sk.Name = name
	sk.ParentID = parent
	st.Skills[id] = sk
	if err := s.save(st); err != nil {
		return Skill{}, err
	}
	return sk, nil
}

// DeleteSkill removes a skill and its whole descendant set in one step,
// along with every counter owned by a deleted skill. It returns the
// removed skill IDs in ascending order.
func (s *Service) DeleteSkill(id int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	if _, ok := st.Skills[id]; !ok {
		return nil, notFoundf("skill with id %d not found", id)
	}

	doomed := Descendants(id, ParentMapOf(st.Skills))
	doomed[id] = true

	for skillID := range doomed {
		delete(st.Skills, skillID)
	}
	for counterID, c := range st.Counters {
		if doomed[c.SkillID] {
			delete(st.Counters, counterID)
		}
	}
	if err := s.save(st); err != nil {
		return nil, err
	}

	removed := make([]int64, 0, len(doomed))
	for skillID := range doomed {
		removed = append(removed, skillID)
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return removed, nil
}

// Tree returns the nested view of all roots.
func (s *Service) Tree() ([]TreeNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	return BuildTree(st), nil
}

// Summarize aggregates the subtree rooted at id.
func (s *Service) Summarize(id int64) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return Summary{}, err
	}
	if _, ok := st.Skills[id]; !ok {
		return Summary{}, notFoundf("skill with id %d not found", id)
	}
	return Summarize(id, st), nil
}

// SummarizeRoots aggregates every root's subtree.
func (s *Service) SummarizeRoots() ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	return SummarizeRoots(st), nil
}

// Export serializes the whole forest.
func (s *Service) Export() ([]ExportNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	return ExportForest(st), nil
}

// Import adds the given trees with fresh IDs. With replace set, the new
// state starts empty (both ID allocators reset to 1) and the old contents
// are discarded. Either way the fully built state is persisted with a
// single save, so a validation failure mid-import leaves the store as it
// was.
func (s *Service) Import(trees []ImportNode, replace bool) ([]ExportNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st *State
	if replace {
		st = NewState()
	} else {
		var err error
		st, err = s.load()
		if err != nil {
			return nil, err
		}
	}

	created, err := importTrees(st, trees)
	if err != nil {
		return nil, err
	}
	if err := s.save(st); err != nil {
		return nil, err
	}
	return created, nil
}

// Clear deletes all skills and counters; the next IDs return to 1.
func (s *Service) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(NewState())
}

// CreateCounter attaches a counter to an existing skill.
func (s *Service) CreateCounter(skillID int64, req CreateCounter) (Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return Counter{}, err
	}
	if _, ok := st.Skills[skillID]; !ok {
		return Counter{}, notFoundf("skill with id %d not found", skillID)
	}
	if err := validateName(req.Name); err != nil {
		return Counter{}, err
	}
	if err := validateUnit(req.Unit); err != nil {
		return Counter{}, err
	}
	if req.Value < 0 {
		return Counter{}, invalidf("counter value must be non-negative")
	}
	if req.Target != nil && *req.Target < 0 {
		return Counter{}, invalidf("counter target must be non-negative")
	}

	created := Counter{
		ID:      st.NextCounterID(),
		SkillID: skillID,
		Name:    req.Name,
		Unit:    req.Unit,
		Value:   req.Value,
		Target:  req.Target,
	}
	st.Counters[created.ID] = created
	if err := s.save(st); err != nil {
		return Counter{}, err
	}
	return created, nil
}

// ListCounters returns all counters, or only those of one skill when
// skillID is non-nil, in ascending-ID order.
func (s *Service) ListCounters(skillID *int64) ([]Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	counters := make([]Counter, 0, len(st.Counters))
	for _, id := range st.CounterIDs() {
		c := st.Counters[id]
		if skillID != nil && c.SkillID != *skillID {
			continue
		}
		counters = append(counters, c)
	}
	return counters, nil
}

// GetCounter returns a counter by ID.
func (s *Service) GetCounter(id int64) (Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return Counter{}, err
	}
	c, ok := st.Counters[id]
	if !ok {
		return Counter{}, notFoundf("counter with id %d not found", id)
	}
	return c, nil
}

// UpdateCounter patches the provided fields of a counter.
func (s *Service) UpdateCounter(id int64, req UpdateCounter) (Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return Counter{}, err
	}
	c, ok := st.Counters[id]
	if !ok {
		return Counter{}, notFoundf("counter with id %d not found", id)
	}

	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return Counter{}, err
		}
		c.Name = *req.Name
	}
	if req.Unit != nil {
		if err := validateUnit(req.Unit); err != nil {
			return Counter{}, err
		}
		c.Unit = req.Unit
	}
	if req.Value != nil {
		if *req.Value < 0 {
			return Counter{}, invalidf("counter value must be non-negative")
		}
		c.Value = *req.Value
	}
	if req.Target != nil {
		if *req.Target < 0 {
			return Counter{}, invalidf("counter target must be non-negative")
		}
		c.Target = req.Target
	}

	st.Counters[id] = c
	if err := s.save(st); err != nil {
		return Counter{}, err
	}
	return c, nil
}

// DeleteCounter removes a single counter.
func (s *Service) DeleteCounter(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := st.Counters[id]; !ok {
		return notFoundf("counter with id %d not found", id)
	}
	delete(st.Counters, id)
	return s.save(st)
}

// IncrementCounter adds amount (which may be negative) to a counter's
// value, rejecting a result below zero.
func (s *Service) IncrementCounter(id int64, amount float64) (Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return Counter{}, err
	}
	c, ok := st.Counters[id]
	if !ok {
		return Counter{}, notFoundf("counter with id %d not found", id)
	}
	next := c.Value + amount
	if next < 0 {
		return Counter{}, invalidf("cannot increment by %g: would result in negative value", amount)
	}
	c.Value = next
	st.Counters[id] = c
	if err := s.save(st); err != nil {
		return Counter{}, err
	}
	return c, nil
}

func (s *Service) load() (*State, error) {
	st, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	return st, nil
}

func (s *Service) save(st *State) error {
	if err := s.store.Save(st); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}
