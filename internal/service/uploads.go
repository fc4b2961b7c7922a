package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// UploadConfig sets when a new upload moves to processing and to ready,
// both measured from the upload. The ready step is scheduled once
// processing has started, so the two never run out of order.
type UploadConfig struct {
	ProcessDelay time.Duration
	ReadyDelay   time.Duration
}

// UploadService accepts health documents and simulates their processing
type UploadService struct {
	store     *store.Store
	scheduler *Scheduler
	config    UploadConfig
	logger    *zap.Logger
}

// NewUploadService creates an UploadService
func NewUploadService(st *store.Store, scheduler *Scheduler, config UploadConfig, logger *zap.Logger) *UploadService {
	return &UploadService{
		store:     st,
		scheduler: scheduler,
		config:    config,
		logger:    logger,
	}
}

// InferFileType classifies an upload from its MIME type and name
func InferFileType(fileName, contentType string) model.FileType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return model.FileTypePhoto
	case contentType == "application/pdf":
		return model.FileTypeLab
	case strings.Contains(strings.ToLower(fileName), "ecg"):
		return model.FileTypeECG
	default:
		return model.FileTypePhoto
	}
}

// ExtractedData is the simulated extraction result for a file type
func ExtractedData(fileType model.FileType) map[string]any {
	switch fileType {
	case model.FileTypeECG:
		return map[string]any{
			"heartRate": 78.0,
			"rhythm":    "Normal sinus rhythm",
			"pr":        120.0,
			"qrs":       90.0,
			"qt":        380.0,
		}
	case model.FileTypeLab:
		return map[string]any{
			"cholesterol": 180.0,
			"hdl":         55.0,
			"ldl":         110.0,
			"glucose":     95.0,
			"hba1c":       5.4,
		}
	default:
		return map[string]any{"metadata": "Image processed successfully"}
	}
}

// Upload records a new file and schedules its processing
func (s *UploadService) Upload(ctx context.Context, fileName, contentType string) (model.UploadItem, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return model.UploadItem{}, validationError("file name is required")
	}
	user, session, err := activeUser(s.store.State())
	if err != nil {
		return model.UploadItem{}, err
	}

	item := model.UploadItem{
		ID:         uuid.NewString(),
		FileName:   fileName,
		FileType:   InferFileType(fileName, contentType),
		Status:     model.UploadStatusUploaded,
		UploadedAt: time.Now().UTC(),
		UserID:     user.ID,
	}
	if err := s.store.AddUpload(item); err != nil {
		s.logger.Error("failed to add upload",
			zap.Error(err),
			zap.String("file_name", fileName),
		)
		return model.UploadItem{}, fmt.Errorf("failed to add upload: %w", err)
	}

	readyAfter := max(s.config.ReadyDelay-s.config.ProcessDelay, 0)
	scheduled := s.scheduler.Schedule("upload_processing", session, s.config.ProcessDelay, func(session string) {
		if !s.advance(session, item.ID, model.UploadStatusProcessing, nil) {
			return
		}
		// refused only when the session has just ended
		s.scheduler.Schedule("upload_ready", session, readyAfter, func(session string) {
			s.advance(session, item.ID, model.UploadStatusReady, ExtractedData(item.FileType))
		})
	})
	if !scheduled {
		s.logger.Warn("session ended before upload processing was scheduled",
			zap.String("upload_id", item.ID),
		)
		return model.UploadItem{}, fmt.Errorf("failed to schedule upload processing: %w", store.ErrNoSession)
	}

	s.logger.Info("upload added successfully",
		zap.String("upload_id", item.ID),
		zap.String("file_name", item.FileName),
		zap.String("file_type", string(item.FileType)),
	)
	return item, nil
}

func (s *UploadService) advance(session, id string, status model.UploadStatus, extracted map[string]any) bool {
	err := s.store.InSession(session).UpdateUploadStatus(id, status, extracted)
	if errors.Is(err, store.ErrStaleSession) {
		s.logger.Debug("dropping upload step for ended session",
			zap.String("upload_id", id),
			zap.String("status", string(status)),
		)
		return false
	}
	if err != nil {
		s.logger.Warn("failed to advance upload",
			zap.Error(err),
			zap.String("upload_id", id),
			zap.String("status", string(status)),
		)
		return false
	}
	s.logger.Info("upload status updated",
		zap.String("upload_id", id),
		zap.String("status", string(status)),
	)
	return true
}

// List returns every upload, newest first
func (s *UploadService) List() []model.UploadItem {
	return s.store.State().Uploads
}

// MarkReviewed records a clinician's review of a processed upload
func (s *UploadService) MarkReviewed(ctx context.Context, id string) error {
	doctor, err := requireRole(s.store.State(), model.UserRoleDoctor)
	if err != nil {
		return err
	}
	if err := s.store.MarkUploadReviewed(id, doctor.ID); err != nil {
		s.logger.Error("failed to mark upload reviewed",
			zap.Error(err),
			zap.String("upload_id", id),
		)
		return fmt.Errorf("failed to mark upload reviewed: %w", err)
	}
	s.logger.Info("upload reviewed successfully",
		zap.String("upload_id", id),
		zap.String("reviewer_id", doctor.ID),
	)
	return nil
}
