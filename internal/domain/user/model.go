package user

import "time"

// User mirrors the identity provider's account: the id is assigned by the
// provider and never changes.
type User struct {
	ID          string    `gorm:"primaryKey"`
	Email       string    `gorm:"type:text;not null"`
	DisplayName string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}
