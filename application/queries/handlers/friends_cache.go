package handlers

import (
	"sync"
	"time"
)

// friendsCache holds recently derived friend sets. Derivation walks both
// directions of a user's question history, and the friends feed needs the
// set on every load; a short TTL bounds that cost. Staleness is capped at
// the TTL, which is acceptable: a friendship formed seconds ago appearing
// seconds late is invisible to users.
type friendsCache struct {
	mu    sync.RWMutex
	items map[string]cachedFriends
	ttl   time.Duration
}

type cachedFriends struct {
	friends   []string
	expiresAt time.Time
}

func newFriendsCache(ttl time.Duration) *friendsCache {
	c := &friendsCache{
		items: make(map[string]cachedFriends),
		ttl:   ttl,
	}
	go c.cleanupExpired()
	return c
}

func (c *friendsCache) get(userID string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[userID]
	if !exists || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.friends, true
}

func (c *friendsCache) set(userID string, friends []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[userID] = cachedFriends{
		friends:   friends,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *friendsCache) invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, userID)
}

func (c *friendsCache) cleanupExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, item := range c.items {
			if now.After(item.expiresAt) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
