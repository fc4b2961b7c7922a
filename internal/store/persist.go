package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/internal/persistence"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// SchemaVersion is written with every persisted projection. A stored
// projection with a different version is discarded on load.
const SchemaVersion = 1

// DefaultKey is the persistence key of the store projection
const DefaultKey = "hope-app-store"

// Persisted is the whitelisted part of State that survives restarts.
// Live metrics, time series and rosters are regenerated per session.
type Persisted struct {
	SchemaVersion  int                  `json:"schema_version"`
	CurrentUser    *model.UserProfile   `json:"current_user"`
	CurrentRole    *model.UserRole      `json:"current_role"`
	OnboardingData model.OnboardingData `json:"onboarding_data"`
	OnboardingStep int                  `json:"onboarding_step"`
	Medications    []model.Medication   `json:"medications"`
	DoseLogs       []model.DoseLog      `json:"dose_logs"`
	AdviceItems    []model.AdviceItem   `json:"advice_items"`
	ChatMessages   []model.ChatMessage  `json:"chat_messages"`
	Uploads        []model.UploadItem   `json:"uploads"`
}

// Projection extracts the persisted fields of s
func Projection(s State) Persisted {
	return Persisted{
		SchemaVersion:  SchemaVersion,
		CurrentUser:    s.CurrentUser,
		CurrentRole:    s.CurrentRole,
		OnboardingData: s.OnboardingData,
		OnboardingStep: s.OnboardingStep,
		Medications:    s.Medications,
		DoseLogs:       s.DoseLogs,
		AdviceItems:    s.AdviceItems,
		ChatMessages:   s.ChatMessages,
		Uploads:        s.Uploads,
	}
}

// hydrate builds the start-up state from a persisted projection
func (p Persisted) hydrate() State {
	s := initialState()
	s.CurrentUser = p.CurrentUser
	s.CurrentRole = p.CurrentRole
	s.OnboardingData = p.OnboardingData
	s.OnboardingStep = p.OnboardingStep
	if p.Medications != nil {
		s.Medications = p.Medications
	}
	if p.DoseLogs != nil {
		s.DoseLogs = p.DoseLogs
	}
	if p.AdviceItems != nil {
		s.AdviceItems = p.AdviceItems
	}
	if p.ChatMessages != nil {
		s.ChatMessages = p.ChatMessages
	}
	if p.Uploads != nil {
		s.Uploads = p.Uploads
	}
	return s
}

// DecodePersisted parses a stored projection and checks its schema version
func DecodePersisted(data []byte) (Persisted, error) {
	var p Persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return Persisted{}, err
	}
	if p.SchemaVersion != SchemaVersion {
		return Persisted{}, errSchemaMismatch
	}
	return p, nil
}

var errSchemaMismatch = errors.New("persisted schema version mismatch")

// load reads the persisted projection. Any failure falls back to the
// initial state.
func (s *Store) load(ctx context.Context) State {
	if s.adapter == nil {
		return initialState()
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	data, err := s.adapter.Get(ctx, s.key)
	if errors.Is(err, persistence.ErrNotFound) {
		return initialState()
	}
	if err != nil {
		s.logger.Warn("failed to read persisted state, starting empty",
			zap.String("key", s.key),
			zap.Error(err),
		)
		return initialState()
	}

	p, err := DecodePersisted(data)
	if err != nil {
		s.logger.Warn("discarding persisted state",
			zap.String("key", s.key),
			zap.Error(err),
		)
		return initialState()
	}

	s.logger.Info("restored persisted state",
		zap.String("key", s.key),
		zap.Int("medications", len(p.Medications)),
		zap.Int("advice_items", len(p.AdviceItems)),
		zap.Int("chat_messages", len(p.ChatMessages)),
	)
	return p.hydrate()
}

// persist writes the projection of state. Failures are logged and never
// fail the action that triggered the write.
func (s *Store) persist(state State) {
	if s.adapter == nil {
		return
	}

	start := time.Now()
	err := s.writeProjection(state)
	result := "ok"
	if err != nil {
		result = "error"
		s.logger.Warn("failed to persist state",
			zap.String("key", s.key),
			zap.Error(err),
		)
	}
	s.metrics.persistDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}

func (s *Store) writeProjection(state State) error {
	data, err := json.Marshal(Projection(state))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	return s.adapter.Set(ctx, s.key, data)
}
