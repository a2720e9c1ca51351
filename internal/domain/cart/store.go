package cart

import (
	"context"
	"sync"
	"time"
)

// DefaultSessionTTL is how long an idle session keeps its cart.
const DefaultSessionTTL = 2 * time.Hour

// Store is a session-keyed cart registry. Session identity comes from the
// transport layer (the authenticated session is an external collaborator);
// the store only maps opaque session IDs to carts.
type Store struct {
	catalog Lookup
	ttl     time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	cart     *Cart
	lastSeen time.Time
}

// NewStore creates a Store pricing carts against catalog. Idle sessions are
// dropped after ttl by the cleanup loop; a non-positive ttl falls back to
// DefaultSessionTTL.
func NewStore(catalog Lookup, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{
		catalog:  catalog,
		ttl:      ttl,
		sessions: make(map[string]*session),
	}
}

// Get returns the cart for the given session, creating it on first use.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{cart: New(s.catalog)}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = time.Now()
	return sess.cart
}

// Remove drops the cart for the given session.
func (s *Store) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// StartCleanup launches a goroutine that evicts idle sessions every ttl/2.
// It stops when ctx is cancelled.
func (s *Store) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.cleanup(now)
			}
		}
	}()
}

func (s *Store) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) >= s.ttl {
			delete(s.sessions, id)
		}
	}
}
