package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/internal/audit"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"go.uber.org/zap"
)

// DataRightsService implements data portability and the right to be forgotten
// over the persisted projection
type DataRightsService struct {
	store       *store.Store
	auditLogger *audit.Logger
	logger      *zap.Logger
}

// NewDataRightsService creates a DataRightsService
func NewDataRightsService(st *store.Store, auditLogger *audit.Logger, logger *zap.Logger) *DataRightsService {
	return &DataRightsService{
		store:       st,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// UserDataExport represents all persisted user data for export
type UserDataExport struct {
	store.Persisted
	ExportedAt time.Time `json:"exported_at"`
}

// Requester identifies who asked for a data rights operation
type Requester struct {
	IPAddress string
	UserAgent string
}

func (s *DataRightsService) subject() string {
	if user := s.store.State().CurrentUser; user != nil {
		return user.ID
	}
	return "anonymous"
}

// ExportUserData exports the persisted projection as indented JSON
func (s *DataRightsService) ExportUserData(ctx context.Context, req Requester) ([]byte, error) {
	userID := s.subject()
	s.logger.Info("starting user data export",
		zap.String("user_id", userID),
	)

	export := UserDataExport{
		Persisted:  store.Projection(s.store.State()),
		ExportedAt: time.Now().UTC(),
	}

	jsonData, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export data: %w", err)
	}

	if err := s.auditLogger.Record(ctx, audit.OperationRead, userID, audit.ResourceUserData, userID, req.IPAddress, req.UserAgent); err != nil {
		s.logger.Error("failed to log audit entry for data export", zap.Error(err))
	}

	s.logger.Info("user data export completed",
		zap.String("user_id", userID),
		zap.Int("medications", len(export.Medications)),
		zap.Int("dose_logs", len(export.DoseLogs)),
		zap.Int("advice_items", len(export.AdviceItems)),
		zap.Int("chat_messages", len(export.ChatMessages)),
		zap.Int("uploads", len(export.Uploads)),
	)
	return jsonData, nil
}

// DeleteUserData resets the store and deletes the persisted projection
func (s *DataRightsService) DeleteUserData(ctx context.Context, req Requester) error {
	userID := s.subject()
	s.logger.Info("starting user data deletion",
		zap.String("user_id", userID),
	)

	if err := s.store.Erase(ctx); err != nil {
		s.logger.Error("failed to erase persisted state",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to erase persisted state: %w", err)
	}

	if err := s.auditLogger.Record(ctx, audit.OperationDelete, userID, audit.ResourceUserData, userID, req.IPAddress, req.UserAgent); err != nil {
		s.logger.Error("failed to log audit entry for user deletion", zap.Error(err))
	}

	s.logger.Info("user data deletion completed",
		zap.String("user_id", userID),
	)
	return nil
}
