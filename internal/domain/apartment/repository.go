package apartment

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, apartmentID string) (*Apartment, error)
	GetFirstByUser(ctx context.Context, userID string) (*Apartment, error)
	CreateApartment(ctx context.Context, apartment *Apartment) error
	AddMember(ctx context.Context, member *Member) error
	IsMember(ctx context.Context, apartmentID, userID string) (bool, error)
	ListMemberProfiles(ctx context.Context, apartmentID string) ([]MemberRow, error)
}

// MemberRow is the raw roster row: DisplayName is nil when the member id no
// longer dereferences to a user document.
type MemberRow struct {
	UserID      string
	DisplayName *string
}
