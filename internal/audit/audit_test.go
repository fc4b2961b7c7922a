package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogger_RecordKeepsTrail(t *testing.T) {
	l := NewLogger(nil, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, OperationCreate, "user-1", ResourceMedication, "med-1", "127.0.0.1", "test"))
	require.NoError(t, l.Record(ctx, OperationUpdate, "user-2", ResourceAdvice, "advice-1", "127.0.0.1", "test"))
	require.NoError(t, l.Record(ctx, OperationDelete, "user-1", ResourceUserData, "user-1", "127.0.0.1", "test"))

	all := l.Recent("", 0)
	require.Len(t, all, 3)
	assert.Equal(t, OperationDelete, all[0].OperationType, "newest first")
	assert.NotEmpty(t, all[0].ID)
	assert.False(t, all[0].Timestamp.IsZero())

	mine := l.Recent("user-1", 0)
	require.Len(t, mine, 2)
	for _, entry := range mine {
		assert.Equal(t, "user-1", entry.UserID)
	}

	assert.Len(t, l.Recent("", 1), 1)
}

func TestLogger_TrailIsBounded(t *testing.T) {
	l := NewLogger(nil, zap.NewNop())
	l.capacity = 10

	for i := 0; i < 25; i++ {
		require.NoError(t, l.Record(context.Background(), OperationRead, "user-1", ResourcePatient, fmt.Sprintf("patient-%d", i), "", ""))
	}

	trail := l.Recent("", 0)
	require.Len(t, trail, 10)
	assert.Equal(t, "patient-24", trail[0].ResourceID)
	assert.Equal(t, "patient-15", trail[9].ResourceID)
}

func TestLogger_WithoutDatabase(t *testing.T) {
	l := NewLogger(nil, zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, l.EnsureSchema(ctx))
	require.NoError(t, l.Record(ctx, OperationCreate, "user-1", ResourceUpload, "upload-1", "", ""))

	logs, err := l.GetAuditLogs(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
