package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 4 * time.Hour

// Store keeps sessions in memory. A session expires after ttl without use.
type Store struct {
	cache *cache.Cache
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := cache.New(ttl, ttl/4)
	c.OnEvicted(func(id string, _ interface{}) {
		slog.Debug("session evicted", "session_id", id)
	})
	return &Store{cache: c}
}

// Create starts a new, empty session.
func (st *Store) Create() *Session {
	s := New(uuid.NewString())
	st.cache.Set(s.ID, s, cache.DefaultExpiration)
	return s
}

// Get returns the session and extends its lifetime.
func (st *Store) Get(id string) (*Session, bool) {
	x, found := st.cache.Get(id)
	if !found {
		return nil, false
	}
	s := x.(*Session)
	st.cache.Set(id, s, cache.DefaultExpiration)
	return s, true
}

// Delete removes the session. It reports whether the session existed.
func (st *Store) Delete(id string) bool {
	if _, found := st.cache.Get(id); !found {
		return false
	}
	st.cache.Delete(id)
	return true
}

// Count returns the number of live sessions.
func (st *Store) Count() int {
	return st.cache.ItemCount()
}
