package skill

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// memStore is a minimal in-process Store for service tests. Load hands
// out copies so a failed operation cannot leak partial mutations.
type memStore struct {
	state *State
	// saveErr, when set, makes Save fail to exercise fail-loud behavior.
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{state: NewState()}
}

func (m *memStore) Load() (*State, error) {
	out := NewState()
	for id, s := range m.state.Skills {
		out.Skills[id] = s
	}
	for id, c := range m.state.Counters {
		out.Counters[id] = c
	}
	return out, nil
}

func (m *memStore) Save(st *State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = st
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	ms := newMemStore()
	return NewService(ms), ms
}

func mustRoot(t *testing.T, svc *Service, name string) Skill {
	t.Helper()
	sk, err := svc.CreateRoot(CreateSkill{Name: name})
	if err != nil {
		t.Fatalf("creating root %s: %v", name, err)
	}
	return sk
}

func mustChild(t *testing.T, svc *Service, parent int64, name string) Skill {
	t.Helper()
	sk, err := svc.CreateChild(parent, CreateSkill{Name: name})
	if err != nil {
		t.Fatalf("creating child %s under %d: %v", name, parent, err)
	}
	return sk
}

func TestCreateRoot(t *testing.T) {
	svc, _ := newTestService(t)

	sk := mustRoot(t, svc, "Programming")
	if sk.ID != 1 || sk.Name != "Programming" || sk.ParentID != nil {
		t.Errorf("created root = %+v", sk)
	}
	if second := mustRoot(t, svc, "Mathematics"); second.ID != 2 {
		t.Errorf("second root id = %d, want 2", second.ID)
	}
}

func TestCreateRoot_RejectsParent(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateRoot(CreateSkill{Name: "Python", ParentID: i64(1)})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateRoot_DuplicateNameCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	mustRoot(t, svc, "programming")

	_, err := svc.CreateRoot(CreateSkill{Name: "PROGRAMMING"})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestCreateChild(t *testing.T) {
	svc, _ := newTestService(t)
	parent := mustRoot(t, svc, "Programming")

	child := mustChild(t, svc, parent.ID, "Python")
	if child.ParentID == nil || *child.ParentID != parent.ID {
		t.Errorf("child parent = %v, want %d", child.ParentID, parent.ID)
	}

	// Duplicate names are fine below the root level.
	if _, err := svc.CreateChild(parent.ID, CreateSkill{Name: "Python"}); err != nil {
		t.Errorf("sibling with same name should be allowed: %v", err)
	}
}

func TestCreateChild_ParentMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateChild(999, CreateSkill{Name: "Python"})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCreateChild_BodyParentMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustRoot(t, svc, "A")
	b := mustRoot(t, svc, "B")

	_, err := svc.CreateChild(a.ID, CreateSkill{Name: "child", ParentID: &b.ID})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for mismatched parent, got %v", err)
	}
}

func TestIDAllocation_MaxPlusOne(t *testing.T) {
	svc, ms := newTestService(t)
	// Seed IDs 1, 3, 5 directly; the next allocated ID must be 6.
	ms.state = stateWith([]Skill{
		{ID: 1, Name: "A"},
		{ID: 3, Name: "B"},
		{ID: 5, Name: "C"},
	}, nil)

	sk := mustRoot(t, svc, "D")
	if sk.ID != 6 {
		t.Errorf("next id = %d, want 6", sk.ID)
	}
}

func TestIDAllocation_ResetsAfterClear(t *testing.T) {
	svc, _ := newTestService(t)
	mustRoot(t, svc, "A")
	mustRoot(t, svc, "B")

	if err := svc.Clear(); err != nil {
		t.Fatal(err)
	}
	if sk := mustRoot(t, svc, "C"); sk.ID != 1 {
		t.Errorf("id after clear = %d, want 1", sk.ID)
	}
}

func TestUpdateSkill_Rename(t *testing.T) {
	svc, _ := newTestService(t)
	sk := mustRoot(t, svc, "Programming")

	updated, err := svc.UpdateSkill(sk.ID, UpdateSkill{Name: strPtr("Coding")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Coding" || updated.ParentID != nil {
		t.Errorf("updated = %+v, want renamed root", updated)
	}
}

func TestUpdateSkill_AbsentParentUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	root := mustRoot(t, svc, "A")
	child := mustChild(t, svc, root.ID, "B")

	updated, err := svc.UpdateSkill(child.ID, UpdateSkill{Name: strPtr("B2")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ParentID == nil || *updated.ParentID != root.ID {
		t.Errorf("parent must survive a rename-only update, got %v", updated.ParentID)
	}
}

func TestUpdateSkill_PromoteToRoot(t *testing.T) {
	svc, _ := newTestService(t)
	root := mustRoot(t, svc, "A")
	child := mustChild(t, svc, root.ID, "B")

	updated, err := svc.UpdateSkill(child.ID, UpdateSkill{ParentID: PatchRoot()})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ParentID != nil {
		t.Errorf("expected root after promotion, got parent %v", *updated.ParentID)
	}
}

func TestUpdateSkill_PromoteToRootNameConflict(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustRoot(t, svc, "Python")
	b := mustRoot(t, svc, "Other")
	child := mustChild(t, svc, b.ID, "python")
	_ = a

	_, err := svc.UpdateSkill(child.ID, UpdateSkill{ParentID: PatchRoot()})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("promoting to a duplicate root name should conflict, got %v", err)
	}
}

func TestUpdateSkill_Reparent(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustRoot(t, svc, "A")
	b := mustRoot(t, svc, "B")
	child := mustChild(t, svc, a.ID, "C")

	updated, err := svc.UpdateSkill(child.ID, UpdateSkill{ParentID: PatchParent(b.ID)})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ParentID == nil || *updated.ParentID != b.ID {
		t.Errorf("parent = %v, want %d", updated.ParentID, b.ID)
	}
}

func TestUpdateSkill_ReparentToMissingParent(t *testing.T) {
	svc, _ := newTestService(t)
	sk := mustRoot(t, svc, "A")

	_, err := svc.UpdateSkill(sk.ID, UpdateSkill{ParentID: PatchParent(999)})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for missing parent, got %v", err)
	}
}

func TestUpdateSkill_CycleRejectedTreeUnchanged(t *testing.T) {
	svc, ms := newTestService(t)
	a := mustRoot(t, svc, "A")
	b := mustChild(t, svc, a.ID, "B")
	c := mustChild(t, svc, b.ID, "C")

	before, _ := ms.Load()
	_, err := svc.UpdateSkill(a.ID, UpdateSkill{ParentID: PatchParent(c.ID)})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("reparenting a root under its grandchild must conflict, got %v", err)
	}
	after, _ := ms.Load()
	if !reflect.DeepEqual(before.Skills, after.Skills) {
		t.Error("rejected reparent must leave the tree unchanged")
	}
}

func TestDeleteSkill_CascadesMiddleNode(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustRoot(t, svc, "A")
	b := mustChild(t, svc, a.ID, "B")
	c := mustChild(t, svc, b.ID, "C")

	removed, err := svc.DeleteSkill(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int64{b.ID, c.ID}; !reflect.DeepEqual(removed, want) {
		t.Errorf("removed = %v, want %v", removed, want)
	}

	if _, err := svc.GetSkill(a.ID); err != nil {
		t.Errorf("ancestor A must survive: %v", err)
	}
	for _, id := range []int64{b.ID, c.ID} {
		if _, err := svc.GetSkill(id); err == nil {
			t.Errorf("skill %d should be gone", id)
		}
	}
}

func TestDeleteSkill_PurgesSubtreeCounters(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustRoot(t, svc, "A")
	b := mustChild(t, svc, a.ID, "B")

	if _, err := svc.CreateCounter(a.ID, CreateCounter{Name: "Keep"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateCounter(b.ID, CreateCounter{Name: "Gone"}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.DeleteSkill(b.ID); err != nil {
		t.Fatal(err)
	}

	counters, err := svc.ListCounters(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(counters) != 1 || counters[0].Name != "Keep" {
		t.Errorf("counters after cascade = %+v, want only Keep", counters)
	}
}

func TestDeleteSkill_SiblingsUntouched(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustRoot(t, svc, "A")
	b := mustChild(t, svc, a.ID, "B")
	c := mustChild(t, svc, a.ID, "C")

	if _, err := svc.DeleteSkill(b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetSkill(c.ID); err != nil {
		t.Errorf("sibling C must survive: %v", err)
	}
}

func TestDeleteSkill_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.DeleteSkill(999)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestSaveFailurePropagates(t *testing.T) {
	svc, ms := newTestService(t)
	ms.saveErr = fmt.Errorf("disk full")

	_, err := svc.CreateRoot(CreateSkill{Name: "A"})
	if err == nil {
		t.Fatal("a failed save must not be swallowed")
	}
}

func TestImport_ReplaceResetsAllocators(t *testing.T) {
	svc, _ := newTestService(t)
	mustRoot(t, svc, "Old1")
	mustRoot(t, svc, "Old2")
	old := mustRoot(t, svc, "Old3")
	if _, err := svc.CreateCounter(old.ID, CreateCounter{Name: "Hours"}); err != nil {
		t.Fatal(err)
	}

	created, err := svc.Import([]ImportNode{{Name: "New"}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if created[0].ID != 1 {
		t.Errorf("replace-all must reset skill IDs, got %d", created[0].ID)
	}
	skills, _ := svc.ListSkills()
	if len(skills) != 1 || skills[0].Name != "New" {
		t.Errorf("old state must be gone, got %+v", skills)
	}
	counters, _ := svc.ListCounters(nil)
	if len(counters) != 0 {
		t.Errorf("old counters must be gone, got %+v", counters)
	}
}

func TestImport_FailureLeavesStoreUntouched(t *testing.T) {
	svc, ms := newTestService(t)
	mustRoot(t, svc, "Existing")
	savesBefore := ms.saves

	_, err := svc.Import([]ImportNode{
		{Name: "Fresh"},
		{Name: "Existing"}, // conflicts, second in the batch
	}, false)
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ms.saves != savesBefore {
		t.Error("a failed import must not reach the store")
	}
	skills, _ := svc.ListSkills()
	if len(skills) != 1 {
		t.Errorf("store should still hold exactly the original skill, got %+v", skills)
	}
}

func TestIncrementCounter(t *testing.T) {
	svc, _ := newTestService(t)
	sk := mustRoot(t, svc, "A")
	c, err := svc.CreateCounter(sk.ID, CreateCounter{Name: "Hours", Value: 2})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.IncrementCounter(c.ID, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != 3.5 {
		t.Errorf("value = %v, want 3.5", got.Value)
	}

	// Negative amounts decrement but may not cross zero.
	if _, err := svc.IncrementCounter(c.ID, -3); err != nil {
		t.Fatalf("decrement within range failed: %v", err)
	}
	_, err = svc.IncrementCounter(c.ID, -10)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for negative result, got %v", err)
	}
}

func TestListCounters_FilterBySkill(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustRoot(t, svc, "A")
	b := mustRoot(t, svc, "B")
	if _, err := svc.CreateCounter(a.ID, CreateCounter{Name: "One"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateCounter(b.ID, CreateCounter{Name: "Two"}); err != nil {
		t.Fatal(err)
	}

	all, _ := svc.ListCounters(nil)
	if len(all) != 2 {
		t.Errorf("all counters = %d, want 2", len(all))
	}
	onlyB, _ := svc.ListCounters(&b.ID)
	if len(onlyB) != 1 || onlyB[0].Name != "Two" {
		t.Errorf("filtered counters = %+v, want only Two", onlyB)
	}
}

func TestUpdateCounter_PartialFields(t *testing.T) {
	svc, _ := newTestService(t)
	sk := mustRoot(t, svc, "A")
	c, err := svc.CreateCounter(sk.ID, CreateCounter{Name: "Hours", Unit: strPtr("h"), Value: 5})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.UpdateCounter(c.ID, UpdateCounter{Value: f64(7)})
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != 7 || got.Name != "Hours" || got.Unit == nil || *got.Unit != "h" {
		t.Errorf("partial update clobbered fields: %+v", got)
	}
}

func TestParentPatch_JSONTriState(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		present bool
		root    bool
		id      int64
	}{
		{"absent", `{}`, false, false, 0},
		{"null", `{"parent_id": null}`, true, true, 0},
		{"minus one", `{"parent_id": -1}`, true, true, 0},
		{"concrete", `{"parent_id": 7}`, true, false, 7},
	}
	for _, tc := range cases {
		var req UpdateSkill
		if err := json.Unmarshal([]byte(tc.body), &req); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		p := req.ParentID
		if p.Present() != tc.present || p.Root() != tc.root || p.ID() != tc.id {
			t.Errorf("%s: present=%v root=%v id=%d, want %v/%v/%d",
				tc.name, p.Present(), p.Root(), p.ID(), tc.present, tc.root, tc.id)
		}
	}
}
