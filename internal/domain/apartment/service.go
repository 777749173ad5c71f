package apartment

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"apartment-chores-go/pkg/logger"
)

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	log      logger.Logger
}

func NewService(repo Repository, cache Cache, cacheTTL time.Duration, log logger.Logger) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL, log: log}
}

// ResolveForUser returns the apartment the user belongs to. Users belonging
// to several apartments get the oldest one; multi-apartment membership is a
// documented limitation, not a supported feature.
func (s *Service) ResolveForUser(ctx context.Context, userID string) (*Apartment, error) {
	if cached, ok := s.cache.GetByUserID(userID); ok {
		return cached, nil
	}

	apartment, err := s.repo.GetFirstByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.SetByUserID(userID, apartment, s.cacheTTL)
	return apartment, nil
}

// Create makes a new apartment with the creator as its first member.
func (s *Service) Create(ctx context.Context, userID, name, address string) (*Apartment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	created := Apartment{
		ID:        id,
		Name:      name,
		Address:   strings.TrimSpace(address),
		CreatedBy: userID,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateApartment(ctx, &created); err != nil {
			return err
		}
		return tx.AddMember(ctx, &Member{ApartmentID: created.ID, UserID: userID})
	})
	if err != nil {
		return nil, err
	}

	s.cache.SetByUserID(userID, &created, s.cacheTTL)
	return &created, nil
}

// Join adds the user to an existing apartment. Joining an apartment the user
// is already a member of is a no-op.
func (s *Service) Join(ctx context.Context, apartmentID, userID string) (*Apartment, error) {
	apartmentID = strings.TrimSpace(apartmentID)
	if apartmentID == "" {
		return nil, fmt.Errorf("apartment id is required")
	}

	var joined Apartment
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		found, err := tx.GetByID(ctx, apartmentID)
		if err != nil {
			return err
		}

		member, err := tx.IsMember(ctx, apartmentID, userID)
		if err != nil {
			return err
		}
		if !member {
			if err := tx.AddMember(ctx, &Member{ApartmentID: apartmentID, UserID: userID}); err != nil {
				return err
			}
		}

		joined = *found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.SetByUserID(userID, &joined, s.cacheTTL)
	return &joined, nil
}

// Roster dereferences the member ids of an apartment into profiles. Stale
// member ids without a user document are skipped, not an error.
func (s *Service) Roster(ctx context.Context, apartmentID string) ([]MemberProfile, error) {
	rows, err := s.repo.ListMemberProfiles(ctx, apartmentID)
	if err != nil {
		return nil, err
	}

	roster := make([]MemberProfile, 0, len(rows))
	for _, row := range rows {
		if row.DisplayName == nil {
			s.log.Warn("apartment: skipping member without user document", "apartment_id", apartmentID, "user_id", row.UserID)
			continue
		}
		roster = append(roster, MemberProfile{UserID: row.UserID, DisplayName: *row.DisplayName})
	}
	return roster, nil
}

func newUUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}

	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16]), nil
}
