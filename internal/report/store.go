package report

import "sync"

// SessionStore holds at most one open session per user.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Put installs s for userID and returns the session it replaced, if any.
// The caller is responsible for closing the previous session.
func (st *SessionStore) Put(userID int64, s *Session) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	prev := st.sessions[userID]
	st.sessions[userID] = s
	return prev
}

func (st *SessionStore) Get(userID int64) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	return s, ok
}

func (st *SessionStore) Remove(userID int64) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	delete(st.sessions, userID)
	return s, ok
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
