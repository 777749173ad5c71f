package chore

import (
	"context"
	"sort"
	"time"
)

type Service struct {
	repo  Repository
	rules Rules
}

func NewService(repo Repository, rules Rules) *Service {
	if rules == nil {
		rules = Rules{}
	}
	return &Service{repo: repo, rules: rules}
}

func (s *Service) Rules() Rules {
	return s.rules
}

// List fetches every chore of an apartment. The store gives no ordering
// guarantee; display ordering is imposed by GroupByCategory.
func (s *Service) List(ctx context.Context, apartmentID string) ([]Chore, error) {
	return s.repo.ListByApartment(ctx, apartmentID)
}

// Get returns a chore scoped to the apartment; a chore belonging to another
// apartment is not visible and reads as not found.
func (s *Service) Get(ctx context.Context, apartmentID, choreID string) (*Chore, error) {
	found, err := s.repo.GetByID(ctx, choreID)
	if err != nil {
		return nil, err
	}
	if found.ApartmentID != apartmentID {
		return nil, ErrChoreNotFound
	}
	return found, nil
}

// GroupByCategory splits chores into display sections: categories in
// alphabetical order, chores within a category by SortOrder ascending with
// ties keeping their fetch order.
func GroupByCategory(chores []Chore) []CategoryGroup {
	byCategory := make(map[string][]Chore)
	categories := make([]string, 0)
	for _, c := range chores {
		if _, ok := byCategory[c.Category]; !ok {
			categories = append(categories, c.Category)
		}
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}

	sort.Strings(categories)

	groups := make([]CategoryGroup, 0, len(categories))
	for _, category := range categories {
		section := byCategory[category]
		sort.SliceStable(section, func(i, j int) bool {
			return section[i].SortOrder < section[j].SortOrder
		})
		groups = append(groups, CategoryGroup{Category: category, Chores: section})
	}
	return groups
}

// SetCompletion toggles the completion flag, keeping CompletedAt in lockstep.
// Re-applying the current state is a harmless no-op write.
func (s *Service) SetCompletion(ctx context.Context, apartmentID, choreID string, completed bool) error {
	if _, err := s.Get(ctx, apartmentID, choreID); err != nil {
		return err
	}

	var completedAt *time.Time
	if completed {
		now := time.Now().UTC()
		completedAt = &now
	}
	return s.repo.UpdateCompletion(ctx, choreID, completed, completedAt)
}

// Assign sets or clears a chore's assignee. Clearing (empty candidate) is
// always allowed; for a restricted category the candidate's display name,
// resolved from the roster, must be on the allow-list or nothing is written.
func (s *Service) Assign(ctx context.Context, apartmentID, choreID, candidateID string, roster []Assignee) error {
	found, err := s.Get(ctx, apartmentID, choreID)
	if err != nil {
		return err
	}

	if candidateID == Unassigned {
		return s.repo.UpdateAssignment(ctx, choreID, Unassigned)
	}

	if allowed, restricted := s.rules.Allowed(found.Category); restricted {
		name, ok := rosterDisplayName(roster, candidateID)
		if !ok || !s.rules.Allows(found.Category, name) {
			return &EligibilityError{Category: found.Category, Allowed: allowed}
		}
	}

	return s.repo.UpdateAssignment(ctx, choreID, candidateID)
}

// CompletionPercentage is 100*completed/total, 0 for an empty set.
func CompletionPercentage(chores []Chore) float64 {
	if len(chores) == 0 {
		return 0
	}
	completed := 0
	for _, c := range chores {
		if c.Completed {
			completed++
		}
	}
	return 100 * float64(completed) / float64(len(chores))
}

// Progress loads the apartment's chores and derives the progress-bar state.
func (s *Service) Progress(ctx context.Context, apartmentID string) (Progress, error) {
	chores, err := s.repo.ListByApartment(ctx, apartmentID)
	if err != nil {
		return Progress{}, err
	}

	completed := 0
	for _, c := range chores {
		if c.Completed {
			completed++
		}
	}
	return Progress{
		Total:      len(chores),
		Completed:  completed,
		Percentage: CompletionPercentage(chores),
	}, nil
}

// FilterByAssignee keeps only chores assigned to the member, preserving
// input order.
func FilterByAssignee(chores []Chore, memberID string) []Chore {
	result := make([]Chore, 0)
	for _, c := range chores {
		if c.AssignedTo == memberID {
			result = append(result, c)
		}
	}
	return result
}

// MemberChores is the roommate-lookup view: the store-side variant of
// FilterByAssignee.
func (s *Service) MemberChores(ctx context.Context, apartmentID, memberID string) ([]Chore, error) {
	return s.repo.ListByAssignee(ctx, apartmentID, memberID)
}

// ResetAll clears assignment and completion for every chore of the
// apartment in one atomic batch; a failure leaves every chore untouched.
func (s *Service) ResetAll(ctx context.Context, apartmentID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		return tx.ResetByApartment(ctx, apartmentID)
	})
}

func rosterDisplayName(roster []Assignee, userID string) (string, bool) {
	for _, member := range roster {
		if member.ID == userID {
			return member.DisplayName, true
		}
	}
	return "", false
}
