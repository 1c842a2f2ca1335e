package authclient

import "sync"

// SessionStore persists the current session. It is a dumb boundary: no
// validation, no expiry logic, just durable get/set/clear. The three logical
// fields (tokens, user, issue timestamp) are written and cleared as one unit;
// a store must never hold a user without tokens or tokens without a user.
type SessionStore interface {
	// Save replaces whatever is stored with the given session, atomically.
	Save(sess Session) error

	// Load returns the stored session, or ok=false when the store is empty.
	Load() (sess Session, ok bool, err error)

	// Clear removes the stored session. Clearing an empty store is a no-op.
	Clear() error
}

// MemoryStore is an in-process SessionStore. Sessions do not survive a
// restart; it exists for tests and for callers that explicitly want a
// throwaway session.
type MemoryStore struct {
	mu   sync.Mutex
	sess Session
	set  bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	s.set = true
	return nil
}

func (s *MemoryStore) Load() (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return Session{}, false, nil
	}
	return s.sess, true, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = Session{}
	s.set = false
	return nil
}
