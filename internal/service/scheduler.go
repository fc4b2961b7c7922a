package service

import (
	"sync"
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"go.uber.org/zap"
)

// Scheduler runs deferred callbacks for the current session. Pending
// callbacks are cancelled when the session changes, and a callback that
// fires after a session change is skipped.
type Scheduler struct {
	store  *store.Store
	logger *zap.Logger

	mu          sync.Mutex
	timers      map[uint64]*time.Timer
	nextID      uint64
	session     string
	unsubscribe func()
}

// NewScheduler creates a Scheduler bound to the store's session lifecycle
func NewScheduler(st *store.Store, logger *zap.Logger) *Scheduler {
	s := &Scheduler{
		store:   st,
		logger:  logger,
		timers:  make(map[uint64]*time.Timer),
		session: st.State().SessionID,
	}
	s.unsubscribe = st.Subscribe(s.onState)
	return s
}

// onState runs under the store lock and only touches scheduler state
func (s *Scheduler) onState(state store.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.SessionID == s.session {
		return
	}
	s.session = state.SessionID
	if n := s.cancelLocked(); n > 0 {
		s.logger.Info("cancelled deferred callbacks on session change",
			zap.Int("count", n),
		)
	}
}

// Schedule runs fn after delay on behalf of session. It returns false, and
// schedules nothing, when session is empty or no longer current. fn should
// write through store.InSession(session) so a session change between
// firing and writing is still caught.
func (s *Scheduler) Schedule(name, session string, delay time.Duration, fn func(session string)) bool {
	if session == "" || s.store.State().SessionID != session {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.timers[id] = time.AfterFunc(delay, func() {
		s.fire(id, name, session, fn)
	})
	return true
}

func (s *Scheduler) fire(id uint64, name, session string, fn func(string)) {
	s.mu.Lock()
	_, pending := s.timers[id]
	delete(s.timers, id)
	s.mu.Unlock()

	if !pending {
		return
	}
	if current := s.store.State().SessionID; current != session {
		s.logger.Debug("skipping deferred callback for stale session",
			zap.String("callback", name),
			zap.String("session_id", session),
		)
		return
	}
	fn(session)
}

// Pending returns the number of callbacks that have not fired yet
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// CancelAll stops every pending callback
func (s *Scheduler) CancelAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked()
}

func (s *Scheduler) cancelLocked() int {
	n := 0
	for id, t := range s.timers {
		if t.Stop() {
			n++
		}
		delete(s.timers, id)
	}
	return n
}

// Close cancels pending callbacks and detaches from the store
func (s *Scheduler) Close() {
	s.unsubscribe()
	s.CancelAll()
}
