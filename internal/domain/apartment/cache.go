package apartment

import "time"

// Cache avoids re-resolving the apartment for a user on every request.
type Cache interface {
	GetByUserID(userID string) (*Apartment, bool)
	SetByUserID(userID string, apartment *Apartment, ttl time.Duration)
	DeleteByUserID(userID string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByUserID(string) (*Apartment, bool) {
	return nil, false
}

func (noopCache) SetByUserID(string, *Apartment, time.Duration) {}

func (noopCache) DeleteByUserID(string) {}

func (noopCache) Clear() {}
