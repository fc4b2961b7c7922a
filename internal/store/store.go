// Package store holds the single application state container. Actions
// produce a new immutable State, notify listeners synchronously and write a
// whitelisted projection through to a persistence adapter.
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"github.com/vcscsvcscs/hope/apps/backend/internal/persistence"
	"github.com/vcscsvcscs/hope/apps/backend/internal/synth"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// Listener is called after every state change with the new state. Listeners
// run while the store is locked: they must return quickly and must not call
// back into the store.
type Listener func(State)

// Options configures a Store
type Options struct {
	// Adapter receives the persisted projection; nil disables persistence
	Adapter persistence.Adapter
	Key     string
	// Seed fixes the synthesizer seed of the first session; later sessions use
	// Seed+1, Seed+2 and so on. Zero seeds from the clock.
	Seed         int64
	TickInterval time.Duration
	WriteTimeout time.Duration
	Now          func() time.Time
	Metrics      *Metrics
}

type listenerEntry struct {
	id uint64
	fn Listener
}

// Store is the reactive application store
type Store struct {
	mu             sync.Mutex
	state          State
	listeners      []listenerEntry
	nextListenerID uint64
	generation     uint64

	// lifecycle serializes session changes and owns the ticker handle
	lifecycle     sync.Mutex
	ticker        *liveTicker
	activeTickers atomic.Int32
	sessions      int64

	adapter      persistence.Adapter
	key          string
	seed         int64
	tickInterval time.Duration
	writeTimeout time.Duration
	now          func() time.Time
	metrics      *Metrics
	logger       *zap.Logger
}

// New creates a store and restores the persisted projection, if any
func New(ctx context.Context, opts Options, logger *zap.Logger) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}

	s := &Store{
		adapter:      opts.Adapter,
		key:          opts.Key,
		seed:         opts.Seed,
		tickInterval: opts.TickInterval,
		writeTimeout: opts.WriteTimeout,
		now:          opts.Now,
		metrics:      opts.Metrics,
		logger:       logger,
	}
	s.state = s.load(ctx)
	return s
}

// State returns the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for state changes and returns a function that
// removes it
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextListenerID++
	id := s.nextListenerID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.metrics.subscribers.Inc()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					s.metrics.subscribers.Dec()
					return
				}
			}
		})
	}
}

// Close stops the live metrics ticker
func (s *Store) Close() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.stopTicker()
}

// mutate runs fn on a deep copy of the current state and commits the copy
// if fn succeeds. On error the current state is returned unchanged.
func (s *Store) mutate(action string, persist bool, fn func(st *State) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := deepcopy.Copy(s.state).(State)
	if err := fn(&next); err != nil {
		s.metrics.action(action, err)
		s.logger.Debug("store action rejected",
			zap.String("action", action),
			zap.Error(err),
		)
		return s.state, err
	}

	s.commit(next, persist)
	s.metrics.action(action, nil)
	return next, nil
}

// commit publishes next. Must be called with mu held.
func (s *Store) commit(next State, persist bool) {
	s.state = next
	if persist {
		s.persist(next)
	}
	for _, l := range s.listeners {
		l.fn(next)
	}
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// nextSeed must be called with the lifecycle lock held
func (s *Store) nextSeed(now time.Time) int64 {
	defer func() { s.sessions++ }()
	if s.seed != 0 {
		return s.seed + s.sessions
	}
	return now.UnixNano()
}

// SetUser starts a session for user with a freshly synthesized snapshot, or
// ends the current session when user is nil. The live metrics ticker runs
// only for consumer sessions.
func (s *Store) SetUser(user *model.UserProfile) error {
	if user != nil {
		if err := validateInput(user); err != nil {
			s.metrics.action("setUser", err)
			return err
		}
	}

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.stopTicker()

	if user == nil {
		_, err := s.mutate("setUser", true, func(st *State) error {
			s.generation++
			st.SessionID = ""
			st.CurrentUser = nil
			clearVolatile(st)
			return nil
		})
		s.logger.Info("session ended")
		return err
	}

	now := s.timestamp()
	seed := s.nextSeed(now)
	snapshot := synth.New(seed, now).Initialize()
	current := deepcopy.Copy(*user).(model.UserProfile)

	next, err := s.mutate("setUser", true, func(st *State) error {
		s.generation++
		st.SessionID = uuid.NewString()
		st.CurrentUser = &current
		applySnapshot(st, snapshot)
		return nil
	})
	if err != nil {
		return err
	}

	if user.Role == model.UserRoleUser {
		s.startTicker(s.generation, seed+1)
	}

	s.logger.Info("session started",
		zap.String("session_id", next.SessionID),
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Int64("seed", seed),
	)
	return nil
}

func applySnapshot(st *State, snap synth.Snapshot) {
	st.LiveMetrics = &snap.LiveMetrics
	st.HeartRateData = &snap.HeartRate
	st.HRVData = &snap.HRV
	st.RestingHRForecast = &snap.RestingHRForecast
	st.SleepData = &snap.Sleep
	st.ActivityData = &snap.Activity
	st.BaselineComparison = &snap.Baseline
	st.RiskScore = &snap.RiskScore
	st.Insights = snap.Insights
	st.Doctors = snap.Doctors
	st.Medications = snap.Medications
	st.DoseLogs = []model.DoseLog{}
	st.AdviceItems = snap.AdviceItems
	st.Uploads = snap.Uploads
	st.Alerts = snap.Alerts
	st.Patients = snap.Patients
}

// clearVolatile drops everything that is regenerated per session
func clearVolatile(st *State) {
	st.LiveMetrics = nil
	st.HeartRateData = nil
	st.HRVData = nil
	st.RestingHRForecast = nil
	st.SleepData = nil
	st.ActivityData = nil
	st.BaselineComparison = nil
	st.RiskScore = nil
	st.Insights = []model.Insight{}
	st.Doctors = []model.Doctor{}
	st.Patients = []model.PatientSummary{}
	st.Alerts = []model.PatientAlert{}
}

// Reset stops the ticker and restores the initial empty state. The persisted
// copy is left alone until the next write-through.
func (s *Store) Reset() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.stopTicker()
	s.mutate("resetStore", false, func(st *State) error {
		s.generation++
		*st = initialState()
		return nil
	})
	s.logger.Info("store reset")
}

// Erase resets the store and deletes the persisted projection
func (s *Store) Erase(ctx context.Context) error {
	s.Reset()
	if s.adapter == nil {
		return nil
	}
	if err := s.adapter.Delete(ctx, s.key); err != nil {
		s.metrics.action("erase", err)
		return err
	}
	s.metrics.action("erase", nil)
	s.logger.Info("persisted state erased", zap.String("key", s.key))
	return nil
}
