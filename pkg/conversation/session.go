package conversation

import "sync"

// Session is one user's transient conversation state. An empty Target means idle
type Session struct {
	UserID string
	Target string

	mu sync.Mutex
}

// SessionStore keeps sessions in memory keyed by user ID.
// Holding a session's lock serialises that user's events
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore initializes an empty SessionStore
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// acquire returns the user's session, creating it on first use, with its lock held
func (s *SessionStore) acquire(userID string) *Session {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID}
		s.sessions[userID] = sess
	}
	s.mu.Unlock()

	sess.mu.Lock()
	return sess
}

func (sess *Session) release() {
	sess.mu.Unlock()
}
