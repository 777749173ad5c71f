package apartment

import "time"

type Apartment struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Address   string    `gorm:"type:text"`
	CreatedBy string    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Member struct {
	ApartmentID string    `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"primaryKey;index"`
	JoinedAt    time.Time `gorm:"autoCreateTime"`

	Apartment Apartment `gorm:"foreignKey:ApartmentID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Member) TableName() string {
	return "apartment_members"
}

// MemberProfile is the projection of a member's user document used by the
// assignment UI.
type MemberProfile struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}
