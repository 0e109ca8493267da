package smb2

import "sync"

// Signatory produces and verifies the per-packet signature using the
// session's derived signing key. The core only calls Sign/Verify; it
// never picks the algorithm itself.
type Signatory interface {
	Sign(pkt []byte) []byte
	Verify(pkt []byte) bool
}

// Session is shared between Connection and API callers; its lifetime is
// the longest holder of a reference to it. It is identified by the
// 64-bit session_id the server assigns on the first SESSION_SETUP
// response.
type Session struct {
	SessionID      uint64
	SigningKey     []byte
	SigningRequired bool
	Signatory      Signatory

	mu         sync.Mutex
	expired    bool // set on STATUS_NETWORK_SESSION_EXPIRED
}

// MarkExpired flags the session for reauthentication after a
// STATUS_NETWORK_SESSION_EXPIRED response. Driving the actual
// reauthentication is left to the caller; this core only records the
// fact.
func (s *Session) MarkExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = true
}

// Expired reports whether MarkExpired has been called.
func (s *Session) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired
}

// sessionTable is the mapping from 64-bit session_id to Session used by
// both SessionTable and PreauthSessionTable. A session exists in exactly
// one of the two tables between its first SESSION_SETUP response and
// either promotion or teardown.
type sessionTable struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
}

func newSessionTable() *sessionTable {
	return &sessionTable{sessions: make(map[uint64]*Session)}
}

func (t *sessionTable) register(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[s.SessionID] = s
}

func (t *sessionTable) lookup(id uint64) (*Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sessions[id]
	return s, ok
}

func (t *sessionTable) remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, id)
}

func (t *sessionTable) list() []*Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Session, 0, len(t.sessions))
	for _, s := range t.sessions {
		out = append(out, s)
	}
	return out
}

// SessionTable holds sessions whose authentication has completed
// (STATUS_SUCCESS).
type SessionTable struct{ *sessionTable }

func newSessionTableT() *SessionTable { return &SessionTable{newSessionTable()} }

// Register adds s, keyed by its SessionID.
func (t *SessionTable) Register(s *Session) { t.register(s) }

// Lookup finds a session by its server-assigned ID.
func (t *SessionTable) Lookup(id uint64) (*Session, bool) { return t.lookup(id) }

// Remove drops a session, called on logoff or connection close.
func (t *SessionTable) Remove(id uint64) { t.remove(id) }

// List returns a snapshot of all registered sessions, used by
// Connection.Close to log off each active session.
func (t *SessionTable) List() []*Session { return t.list() }

// PreauthSessionTable holds sessions whose server-assigned ID exists but
// whose authentication round loop has not yet produced STATUS_SUCCESS.
type PreauthSessionTable struct{ *sessionTable }

func newPreauthSessionTable() *PreauthSessionTable { return &PreauthSessionTable{newSessionTable()} }

func (t *PreauthSessionTable) Register(s *Session)        { t.register(s) }
func (t *PreauthSessionTable) Lookup(id uint64) (*Session, bool) { return t.lookup(id) }
func (t *PreauthSessionTable) Remove(id uint64)            { t.remove(id) }
