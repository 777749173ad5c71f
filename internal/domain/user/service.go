package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const placeholderDisplayName = "Unnamed"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// EnsureUser creates the user document on first authentication. The display
// name falls back to the email local-part, then to a placeholder. Existing
// documents are left untouched.
func (s *Service) EnsureUser(ctx context.Context, userID, email, displayName string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	existing, err := s.repo.GetByID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	created := User{
		ID:          userID,
		Email:       email,
		DisplayName: deriveDisplayName(displayName, email),
	}
	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

func deriveDisplayName(displayName, email string) string {
	name := strings.TrimSpace(displayName)
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return placeholderDisplayName
}
