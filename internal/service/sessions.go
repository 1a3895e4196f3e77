package service

import (
	"context"
	"sync"
	"time"

	"ai_diary/internal/logger"
	"ai_diary/internal/models"

	"github.com/google/uuid"
)

// session is the ephemeral per-user workflow state. It lives only in
// memory; nothing is persisted until a composition succeeds. The mutex
// serializes transitions so a session has at most one operation in flight.
type session struct {
	mu sync.Mutex

	id       string
	username string

	state       models.WorkflowState
	summary     string
	firstRound  []models.QA
	secondRound []models.QA
	diary       string

	// savedEntryID is set once a composition has been persisted; later
	// edits replace that entry rather than appending a new one.
	savedEntryID string
	savedAt      time.Time

	updatedAt time.Time
}

func (s *session) touch() {
	s.updatedAt = time.Now().UTC()
}

// snapshot must be called with s.mu held.
func (s *session) snapshot() models.SessionSnapshot {
	return models.SessionSnapshot{
		SessionID:   s.id,
		State:       s.state,
		Summary:     s.summary,
		FirstRound:  append([]models.QA(nil), s.firstRound...),
		SecondRound: append([]models.QA(nil), s.secondRound...),
		Diary:       s.diary,
		UpdatedAt:   s.updatedAt,
	}
}

// sessionStore is the in-memory registry of live workflow sessions,
// keyed by session id. Sessions are created after sign-in and discarded
// at logout or after ttl of inactivity.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
}

const defaultSessionTTL = 30 * time.Minute

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
}

func (st *sessionStore) create(username string) *session {
	s := &session{
		id:        uuid.NewString(),
		username:  username,
		state:     models.StateInputSummary,
		updatedAt: time.Now().UTC(),
	}
	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	return s
}

// get resolves a session for the given owner. A session owned by someone
// else is reported as absent rather than forbidden, so session ids leak
// nothing across users.
func (st *sessionStore) get(id, username string) (*session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok || s.username != username {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (st *sessionStore) delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// sweep removes sessions idle longer than ttl and reports how many went.
func (st *sessionStore) sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	var n int
	for id, s := range st.sessions {
		if now.Sub(s.updatedAt) > st.ttl {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// SweeperService periodically evicts expired sessions.
type SweeperService struct {
	store *sessionStore
	log   *logger.Logger
}

func NewSweeperService(store *sessionStore, log *logger.Logger) *SweeperService {
	return &SweeperService{store: store, log: log}
}

// Run blocks until ctx is cancelled, sweeping on every tick.
func (s *SweeperService) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.store.sweep(now.UTC()); n > 0 && s.log != nil {
				s.log.Infow("sessions_expired", "count", n)
			}
		}
	}
}
