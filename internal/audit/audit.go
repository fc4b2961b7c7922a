package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OperationType represents the type of operation performed
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
	OperationRead   OperationType = "READ"
)

// ResourceType represents the type of resource being accessed
type ResourceType string

const (
	ResourceSession      ResourceType = "session"
	ResourceOnboarding   ResourceType = "onboarding"
	ResourceMedication   ResourceType = "medication"
	ResourceDoseLog      ResourceType = "dose_log"
	ResourceConsultation ResourceType = "consultation"
	ResourceAdvice       ResourceType = "advice"
	ResourceChatMessage  ResourceType = "chat_message"
	ResourceUpload       ResourceType = "upload"
	ResourceAlert        ResourceType = "alert"
	ResourcePatient      ResourceType = "patient"
	ResourceUserData     ResourceType = "user_data"
)

// DefaultCapacity is how many entries the in-memory trail keeps
const DefaultCapacity = 500

const auditSchema = `
	CREATE TABLE IF NOT EXISTS audit_logs (
		id             UUID PRIMARY KEY,
		user_id        VARCHAR(255) NOT NULL,
		operation_type VARCHAR(16) NOT NULL,
		resource_type  VARCHAR(64) NOT NULL,
		resource_id    VARCHAR(255) NOT NULL,
		timestamp      TIMESTAMPTZ NOT NULL,
		ip_address     VARCHAR(64),
		user_agent     TEXT,
		additional_data JSONB
	)
`

// AuditLog represents an audit log entry
type AuditLog struct {
	ID             string                 `json:"id"`
	UserID         string                 `json:"user_id"`
	OperationType  OperationType          `json:"operation_type"`
	ResourceType   ResourceType           `json:"resource_type"`
	ResourceID     string                 `json:"resource_id"`
	Timestamp      time.Time              `json:"timestamp"`
	IPAddress      string                 `json:"ip_address,omitempty"`
	UserAgent      string                 `json:"user_agent,omitempty"`
	AdditionalData map[string]interface{} `json:"additional_data,omitempty"`
}

// Logger records audit entries to the structured log, a bounded in-memory
// trail and, when a pool is configured, the audit_logs table
type Logger struct {
	db       *pgxpool.Pool
	logger   *zap.Logger
	capacity int

	mu     sync.Mutex
	recent []AuditLog
}

// NewLogger creates a new audit logger. db may be nil.
func NewLogger(db *pgxpool.Pool, logger *zap.Logger) *Logger {
	return &Logger{
		db:       db,
		logger:   logger,
		capacity: DefaultCapacity,
	}
}

// EnsureSchema creates the audit_logs table when a pool is configured
func (l *Logger) EnsureSchema(ctx context.Context) error {
	if l.db == nil {
		return nil
	}
	if _, err := l.db.Exec(ctx, auditSchema); err != nil {
		return fmt.Errorf("failed to create audit_logs table: %w", err)
	}
	return nil
}

// Log creates an audit log entry
func (l *Logger) Log(ctx context.Context, entry AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	// Set timestamp if not provided
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	// Log to structured logger first
	l.logger.Info("audit log entry",
		zap.String("user_id", entry.UserID),
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
		zap.String("ip_address", entry.IPAddress),
	)

	l.mu.Lock()
	l.recent = append(l.recent, entry)
	if over := len(l.recent) - l.capacity; over > 0 {
		l.recent = append([]AuditLog(nil), l.recent[over:]...)
	}
	l.mu.Unlock()

	if l.db == nil {
		return nil
	}

	query := `
		INSERT INTO audit_logs (
			id, user_id, operation_type, resource_type, resource_id,
			timestamp, ip_address, user_agent, additional_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := l.db.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.OperationType,
		entry.ResourceType,
		entry.ResourceID,
		entry.Timestamp,
		entry.IPAddress,
		entry.UserAgent,
		entry.AdditionalData,
	)
	if err != nil {
		l.logger.Error("failed to write audit log to database",
			zap.Error(err),
			zap.String("user_id", entry.UserID),
			zap.String("operation", string(entry.OperationType)),
			zap.String("resource_type", string(entry.ResourceType)),
		)
		return err
	}

	return nil
}

// Record logs an operation on a resource
func (l *Logger) Record(ctx context.Context, op OperationType, userID string, resource ResourceType, resourceID, ipAddress, userAgent string) error {
	return l.Log(ctx, AuditLog{
		UserID:        userID,
		OperationType: op,
		ResourceType:  resource,
		ResourceID:    resourceID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// Recent returns up to limit of the newest in-memory entries, newest first.
// An empty userID matches every entry.
func (l *Logger) Recent(userID string, limit int) []AuditLog {
	l.mu.Lock()
	defer l.mu.Unlock()

	logs := []AuditLog{}
	for i := len(l.recent) - 1; i >= 0 && (limit <= 0 || len(logs) < limit); i-- {
		if userID == "" || l.recent[i].UserID == userID {
			logs = append(logs, l.recent[i])
		}
	}
	return logs
}

// GetAuditLogs retrieves audit logs for a user from the database
func (l *Logger) GetAuditLogs(ctx context.Context, userID string, limit int) ([]AuditLog, error) {
	if l.db == nil {
		return l.Recent(userID, limit), nil
	}

	query := `
		SELECT id, user_id, operation_type, resource_type, resource_id,
		       timestamp, ip_address, user_agent
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := l.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []AuditLog
	for rows.Next() {
		var log AuditLog
		var id uuid.UUID
		err := rows.Scan(
			&id,
			&log.UserID,
			&log.OperationType,
			&log.ResourceType,
			&log.ResourceID,
			&log.Timestamp,
			&log.IPAddress,
			&log.UserAgent,
		)
		if err != nil {
			l.logger.Error("failed to scan audit log", zap.Error(err))
			continue
		}
		log.ID = id.String()
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
