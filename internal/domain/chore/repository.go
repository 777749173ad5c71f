package chore

import (
	"context"
	"time"
)

type Repository interface {
	// Transaction is the store's atomic multi-row batch primitive; ResetAll
	// depends on it for all-or-nothing semantics.
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListByApartment(ctx context.Context, apartmentID string) ([]Chore, error)
	ListByAssignee(ctx context.Context, apartmentID, userID string) ([]Chore, error)
	GetByID(ctx context.Context, choreID string) (*Chore, error)
	UpdateCompletion(ctx context.Context, choreID string, completed bool, completedAt *time.Time) error
	UpdateAssignment(ctx context.Context, choreID, userID string) error
	ResetByApartment(ctx context.Context, apartmentID string) error
}
