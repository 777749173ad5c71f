package chore

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeChoreRepo struct {
	chores         map[string]*Chore
	order          []string
	resetFailAfter int
}

func newFakeChoreRepo() *fakeChoreRepo {
	return &fakeChoreRepo{chores: make(map[string]*Chore), resetFailAfter: -1}
}

func (r *fakeChoreRepo) add(c Chore) {
	copied := c
	r.chores[c.ID] = &copied
	r.order = append(r.order, c.ID)
}

// Transaction snapshots state and restores it when fn fails, mimicking the
// store's atomic batch.
func (r *fakeChoreRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	snapshot := make(map[string]*Chore, len(r.chores))
	for id, c := range r.chores {
		copied := *c
		snapshot[id] = &copied
	}
	if err := fn(r); err != nil {
		r.chores = snapshot
		return err
	}
	return nil
}

func (r *fakeChoreRepo) ListByApartment(ctx context.Context, apartmentID string) ([]Chore, error) {
	result := make([]Chore, 0)
	for _, id := range r.order {
		c := r.chores[id]
		if c.ApartmentID == apartmentID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *fakeChoreRepo) ListByAssignee(ctx context.Context, apartmentID, userID string) ([]Chore, error) {
	result := make([]Chore, 0)
	for _, id := range r.order {
		c := r.chores[id]
		if c.ApartmentID == apartmentID && c.AssignedTo == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *fakeChoreRepo) GetByID(ctx context.Context, choreID string) (*Chore, error) {
	c, ok := r.chores[choreID]
	if !ok {
		return nil, ErrChoreNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeChoreRepo) UpdateCompletion(ctx context.Context, choreID string, completed bool, completedAt *time.Time) error {
	c, ok := r.chores[choreID]
	if !ok {
		return ErrChoreNotFound
	}
	c.Completed = completed
	c.CompletedAt = completedAt
	return nil
}

func (r *fakeChoreRepo) UpdateAssignment(ctx context.Context, choreID, userID string) error {
	c, ok := r.chores[choreID]
	if !ok {
		return ErrChoreNotFound
	}
	c.AssignedTo = userID
	return nil
}

func (r *fakeChoreRepo) ResetByApartment(ctx context.Context, apartmentID string) error {
	updated := 0
	for _, id := range r.order {
		c := r.chores[id]
		if c.ApartmentID != apartmentID {
			continue
		}
		if r.resetFailAfter >= 0 && updated >= r.resetFailAfter {
			return errors.New("batch write failed")
		}
		c.AssignedTo = Unassigned
		c.Completed = false
		c.CompletedAt = nil
		updated++
	}
	return nil
}

func TestGroupByCategoryAlphabeticalAndOrderSorted(t *testing.T) {
	chores := []Chore{
		{ID: "1", Name: "Dishes", Category: "Kitchen", SortOrder: 1},
		{ID: "2", Name: "Sweep", Category: "Kitchen", SortOrder: 0},
		{ID: "3", Name: "Scrub", Category: "Bath", SortOrder: 0},
	}

	groups := GroupByCategory(chores)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Category != "Bath" || groups[1].Category != "Kitchen" {
		t.Fatalf("expected alphabetical categories, got %s, %s", groups[0].Category, groups[1].Category)
	}
	if groups[0].Chores[0].Name != "Scrub" {
		t.Fatalf("expected Scrub in Bath, got %s", groups[0].Chores[0].Name)
	}
	if groups[1].Chores[0].Name != "Sweep" || groups[1].Chores[1].Name != "Dishes" {
		t.Fatalf("expected Kitchen order Sweep, Dishes; got %s, %s", groups[1].Chores[0].Name, groups[1].Chores[1].Name)
	}
}

func TestGroupByCategoryStableOnEqualOrder(t *testing.T) {
	chores := []Chore{
		{ID: "a", Name: "First", Category: "Kitchen", SortOrder: 0},
		{ID: "b", Name: "Second", Category: "Kitchen", SortOrder: 0},
		{ID: "c", Name: "Third", Category: "Kitchen", SortOrder: 0},
	}

	groups := GroupByCategory(chores)
	names := []string{groups[0].Chores[0].Name, groups[0].Chores[1].Name, groups[0].Chores[2].Name}
	if names[0] != "First" || names[1] != "Second" || names[2] != "Third" {
		t.Fatalf("expected fetch order preserved on ties, got %v", names)
	}
}

func TestCompletionPercentage(t *testing.T) {
	if got := CompletionPercentage(nil); got != 0 {
		t.Fatalf("expected 0 for empty set, got %v", got)
	}

	chores := []Chore{
		{Completed: true},
		{Completed: true},
		{Completed: false},
		{Completed: false},
		{Completed: false},
	}
	if got := CompletionPercentage(chores); got != 40.0 {
		t.Fatalf("expected 40.0, got %v", got)
	}

	all := []Chore{{Completed: true}, {Completed: true}}
	if got := CompletionPercentage(all); got != 100.0 {
		t.Fatalf("expected 100.0, got %v", got)
	}
}

func TestSetCompletionIdempotent(t *testing.T) {
	repo := newFakeChoreRepo()
	repo.add(Chore{ID: "c-1", Name: "Dishes", Category: "Kitchen", ApartmentID: "apt-1"})
	svc := NewService(repo, nil)

	for i := 0; i < 2; i++ {
		if err := svc.SetCompletion(context.Background(), "apt-1", "c-1", true); err != nil {
			t.Fatalf("pass %d: expected no error, got %v", i+1, err)
		}
	}

	c := repo.chores["c-1"]
	if !c.Completed || c.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %+v", c)
	}

	if err := svc.SetCompletion(context.Background(), "apt-1", "c-1", false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Completed || c.CompletedAt != nil {
		t.Fatalf("expected incomplete with cleared timestamp, got %+v", c)
	}
}

func TestSetCompletionScopedToApartment(t *testing.T) {
	repo := newFakeChoreRepo()
	repo.add(Chore{ID: "c-1", Name: "Dishes", Category: "Kitchen", ApartmentID: "apt-1"})
	svc := NewService(repo, nil)

	err := svc.SetCompletion(context.Background(), "apt-2", "c-1", true)
	if !errors.Is(err, ErrChoreNotFound) {
		t.Fatalf("expected ErrChoreNotFound for foreign apartment, got %v", err)
	}
	if repo.chores["c-1"].Completed {
		t.Fatalf("expected chore untouched")
	}
}

func TestAssignRestrictedCategoryRejectsIneligible(t *testing.T) {
	repo := newFakeChoreRepo()
	repo.add(Chore{ID: "c-1", Name: "Scrub toilet", Category: "Bathroom 1", ApartmentID: "apt-1", AssignedTo: "user-x"})
	rules := Rules{"Bathroom 1": {"Xander", "Spencer"}}
	svc := NewService(repo, rules)

	roster := []Assignee{
		{ID: "user-x", DisplayName: "Xander"},
		{ID: "user-r", DisplayName: "Riley"},
	}

	err := svc.Assign(context.Background(), "apt-1", "c-1", "user-r", roster)
	var eligErr *EligibilityError
	if !errors.As(err, &eligErr) {
		t.Fatalf("expected EligibilityError, got %v", err)
	}
	if eligErr.Category != "Bathroom 1" {
		t.Fatalf("expected category Bathroom 1, got %q", eligErr.Category)
	}
	if len(eligErr.Allowed) != 2 || eligErr.Allowed[0] != "Xander" || eligErr.Allowed[1] != "Spencer" {
		t.Fatalf("expected allowed [Xander Spencer], got %v", eligErr.Allowed)
	}
	if repo.chores["c-1"].AssignedTo != "user-x" {
		t.Fatalf("expected assignment unchanged, got %q", repo.chores["c-1"].AssignedTo)
	}
}

func TestAssignRestrictedCategoryAcceptsEligible(t *testing.T) {
	repo := newFakeChoreRepo()
	repo.add(Chore{ID: "c-1", Name: "Scrub toilet", Category: "Bathroom 1", ApartmentID: "apt-1"})
	svc := NewService(repo, Rules{"Bathroom 1": {"Xander", "Spencer"}})

	roster := []Assignee{{ID: "user-s", DisplayName: "Spencer"}}
	if err := svc.Assign(context.Background(), "apt-1", "c-1", "user-s", roster); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.chores["c-1"].AssignedTo != "user-s" {
		t.Fatalf("expected assignment to user-s, got %q", repo.chores["c-1"].AssignedTo)
	}
}

func TestAssignUnassignAlwaysAllowed(t *testing.T) {
	repo := newFakeChoreRepo()
	repo.add(Chore{ID: "c-1", Name: "Scrub toilet", Category: "Bathroom 1", ApartmentID: "apt-1", AssignedTo: "user-x"})
	svc := NewService(repo, Rules{"Bathroom 1": {"Xander"}})

	if err := svc.Assign(context.Background(), "apt-1", "c-1", Unassigned, nil); err != nil {
		t.Fatalf("expected clearing to always succeed, got %v", err)
	}
	if repo.chores["c-1"].AssignedTo != Unassigned {
		t.Fatalf("expected unassigned, got %q", repo.chores["c-1"].AssignedTo)
	}
}

func TestAssignUnrestrictedCategory(t *testing.T) {
	repo := newFakeChoreRepo()
	repo.add(Chore{ID: "c-1", Name: "Take out trash", Category: "General", ApartmentID: "apt-1"})
	svc := NewService(repo, Rules{"Bathroom 1": {"Xander"}})

	if err := svc.Assign(context.Background(), "apt-1", "c-1", "user-r", []Assignee{{ID: "user-r", DisplayName: "Riley"}}); err != nil {
		t.Fatalf("expected no error for unrestricted category, got %v", err)
	}
	if repo.chores["c-1"].AssignedTo != "user-r" {
		t.Fatalf("expected assignment to user-r, got %q", repo.chores["c-1"].AssignedTo)
	}
}

func TestAssignCandidateMissingFromRoster(t *testing.T) {
	repo := newFakeChoreRepo()
	repo.add(Chore{ID: "c-1", Name: "Scrub toilet", Category: "Bathroom 1", ApartmentID: "apt-1"})
	svc := NewService(repo, Rules{"Bathroom 1": {"Xander"}})

	err := svc.Assign(context.Background(), "apt-1", "c-1", "stranger", []Assignee{{ID: "user-x", DisplayName: "Xander"}})
	var eligErr *EligibilityError
	if !errors.As(err, &eligErr) {
		t.Fatalf("expected EligibilityError for unknown candidate, got %v", err)
	}
	if repo.chores["c-1"].AssignedTo != Unassigned {
		t.Fatalf("expected assignment unchanged")
	}
}

func TestFilterByAssignee(t *testing.T) {
	chores := []Chore{
		{ID: "1", AssignedTo: "user-1"},
		{ID: "2", AssignedTo: "user-2"},
		{ID: "3", AssignedTo: "user-1"},
	}

	mine := FilterByAssignee(chores, "user-1")
	if len(mine) != 2 || mine[0].ID != "1" || mine[1].ID != "3" {
		t.Fatalf("expected [1 3] in order, got %+v", mine)
	}

	none := FilterByAssignee(chores, "user-9")
	if len(none) != 0 {
		t.Fatalf("expected empty result, got %+v", none)
	}

	all := FilterByAssignee(chores[:1], "user-1")
	if len(all) != 1 {
		t.Fatalf("expected single match, got %+v", all)
	}
}

func TestResetAllClearsEveryChore(t *testing.T) {
	repo := newFakeChoreRepo()
	now := time.Now().UTC()
	repo.add(Chore{ID: "c-1", ApartmentID: "apt-1", AssignedTo: "user-1", Completed: true, CompletedAt: &now})
	repo.add(Chore{ID: "c-2", ApartmentID: "apt-1", AssignedTo: "user-2"})
	repo.add(Chore{ID: "c-3", ApartmentID: "apt-2", AssignedTo: "user-3", Completed: true, CompletedAt: &now})

	svc := NewService(repo, nil)
	if err := svc.ResetAll(context.Background(), "apt-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, id := range []string{"c-1", "c-2"} {
		c := repo.chores[id]
		if c.AssignedTo != Unassigned || c.Completed || c.CompletedAt != nil {
			t.Fatalf("expected %s reset, got %+v", id, c)
		}
	}
	if repo.chores["c-3"].AssignedTo != "user-3" {
		t.Fatalf("expected other apartment untouched")
	}
}

func TestResetAllFailureLeavesStateUntouched(t *testing.T) {
	repo := newFakeChoreRepo()
	now := time.Now().UTC()
	repo.add(Chore{ID: "c-1", ApartmentID: "apt-1", AssignedTo: "user-1", Completed: true, CompletedAt: &now})
	repo.add(Chore{ID: "c-2", ApartmentID: "apt-1", AssignedTo: "user-2", Completed: true, CompletedAt: &now})
	repo.resetFailAfter = 1

	svc := NewService(repo, nil)
	if err := svc.ResetAll(context.Background(), "apt-1"); err == nil {
		t.Fatalf("expected batch failure")
	}

	for _, id := range []string{"c-1", "c-2"} {
		c := repo.chores[id]
		if !c.Completed || c.CompletedAt == nil || c.AssignedTo == Unassigned {
			t.Fatalf("expected %s untouched after failed batch, got %+v", id, c)
		}
	}
}

func TestMemberChoresScopedQuery(t *testing.T) {
	repo := newFakeChoreRepo()
	repo.add(Chore{ID: "c-1", ApartmentID: "apt-1", AssignedTo: "user-1"})
	repo.add(Chore{ID: "c-2", ApartmentID: "apt-2", AssignedTo: "user-1"})
	repo.add(Chore{ID: "c-3", ApartmentID: "apt-1", AssignedTo: "user-1"})

	svc := NewService(repo, nil)
	chores, err := svc.MemberChores(context.Background(), "apt-1", "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(chores) != 2 || chores[0].ID != "c-1" || chores[1].ID != "c-3" {
		t.Fatalf("expected apartment-scoped [c-1 c-3], got %+v", chores)
	}
}
