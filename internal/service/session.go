package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/internal/synth"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// SessionService signs synthesized users in and out
type SessionService struct {
	store  *store.Store
	logger *zap.Logger

	mu     sync.Mutex
	seed   int64
	issued int64
	now    func() time.Time
}

// NewSessionService creates a SessionService. A zero seed draws user
// profiles from the clock.
func NewSessionService(st *store.Store, seed int64, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:  st,
		seed:   seed,
		now:    time.Now,
		logger: logger,
	}
}

func (s *SessionService) profileSeed(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.issued++ }()
	if s.seed == 0 {
		return now.UnixNano()
	}
	return s.seed + s.issued
}

// StartSession synthesizes a profile for role and makes it the current user
func (s *SessionService) StartSession(ctx context.Context, role model.UserRole) (store.State, error) {
	if !role.Valid() {
		return store.State{}, validationError(fmt.Sprintf("unknown role %q", role))
	}

	now := s.now().UTC()
	profile := synth.New(s.profileSeed(now), now).CreateMockUser(role)

	if err := s.store.SetUser(&profile); err != nil {
		s.logger.Error("failed to start session",
			zap.Error(err),
			zap.String("role", string(role)),
		)
		return store.State{}, fmt.Errorf("failed to start session: %w", err)
	}
	if err := s.store.SetRole(role); err != nil {
		return store.State{}, fmt.Errorf("failed to set role: %w", err)
	}

	state := s.store.State()
	s.logger.Info("session started successfully",
		zap.String("session_id", state.SessionID),
		zap.String("user_id", profile.ID),
		zap.String("role", string(role)),
	)
	return state, nil
}

// EndSession signs the current user out
func (s *SessionService) EndSession(ctx context.Context) error {
	if err := s.store.SetUser(nil); err != nil {
		s.logger.Error("failed to end session", zap.Error(err))
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.logger.Info("session ended successfully")
	return nil
}

// State returns the current store state
func (s *SessionService) State() store.State {
	return s.store.State()
}
