package inmemory

import (
	"sync"
	"time"

	apartmentdomain "apartment-chores-go/internal/domain/apartment"
)

type InMemoryApartmentCache struct {
	mu    sync.RWMutex
	items map[string]apartmentItem
}

type apartmentItem struct {
	value     apartmentdomain.Apartment
	expiresAt time.Time
}

func NewInMemoryApartmentCache() *InMemoryApartmentCache {
	return &InMemoryApartmentCache{
		items: make(map[string]apartmentItem),
	}
}

func (c *InMemoryApartmentCache) GetByUserID(userID string) (*apartmentdomain.Apartment, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[userID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, userID)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	return &value, true
}

func (c *InMemoryApartmentCache) SetByUserID(userID string, apartment *apartmentdomain.Apartment, ttl time.Duration) {
	if apartment == nil || ttl <= 0 {
		c.DeleteByUserID(userID)
		return
	}

	c.mu.Lock()
	c.items[userID] = apartmentItem{
		value:     *apartment,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryApartmentCache) DeleteByUserID(userID string) {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
}

func (c *InMemoryApartmentCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]apartmentItem)
	c.mu.Unlock()
}
