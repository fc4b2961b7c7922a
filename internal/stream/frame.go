package stream

import (
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
)

// Envelope wraps every message sent over the stream
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Frame is the dashboard-facing slice of the store state
type Frame struct {
	SessionID        string             `json:"session_id"`
	Role             *model.UserRole    `json:"role,omitempty"`
	LiveMetrics      *model.LiveMetrics `json:"live_metrics,omitempty"`
	RiskScore        *model.RiskScore   `json:"risk_score,omitempty"`
	ChatMessages     int                `json:"chat_messages"`
	ProcessingFiles  int                `json:"processing_files"`
	ReviewQueue      int                `json:"review_queue"`
	UnresolvedAlerts int                `json:"unresolved_alerts"`
	IsLoading        bool               `json:"is_loading"`
	Error            *string            `json:"error,omitempty"`
}

// FrameOf condenses st into a frame
func FrameOf(st store.State) Frame {
	f := Frame{
		SessionID:        st.SessionID,
		Role:             st.CurrentRole,
		LiveMetrics:      st.LiveMetrics,
		RiskScore:        st.RiskScore,
		ChatMessages:     len(st.ChatMessages),
		ReviewQueue:      len(st.ReviewQueue()),
		UnresolvedAlerts: len(st.UnresolvedAlerts()),
		IsLoading:        st.IsLoading,
		Error:            st.Error,
	}
	for _, upload := range st.Uploads {
		if !upload.Status.Terminal() {
			f.ProcessingFiles++
		}
	}
	return f
}
