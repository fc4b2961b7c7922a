package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store/storetest"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

func newChatService(t *testing.T, st *store.Store, delay time.Duration) *ChatService {
	t.Helper()
	sched := NewScheduler(st, zap.NewNop())
	t.Cleanup(sched.Close)
	return NewChatService(st, sched, ChatConfig{MinDelay: delay, MaxDelay: 2 * delay}, 42, zap.NewNop())
}

func TestChatService_GenerateReply(t *testing.T) {
	st, _ := storetest.NewStore(t)
	svc := newChatService(t, st, time.Millisecond)

	tests := []struct {
		name    string
		message string
		replies []string
	}{
		{"sleep keyword", "I am always TIRED lately", replySets[0].responses},
		{"heart rate keyword", "What about my heart rate?", replySets[1].responses},
		{"pulse keyword", "my pulse feels fast", replySets[1].responses},
		{"exercise keyword", "Should I change my workout?", replySets[2].responses},
		{"stress keyword", "I feel anxiety at work", replySets[3].responses},
		{"no keyword", "Hello, can you help me?", defaultReplies},
		{"first matching set wins", "stress keeps me from sleep", replySets[0].responses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.replies, svc.GenerateReply(tt.message))
		})
	}
}

func TestChatService_SendMessageDeliversReply(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := newChatService(t, st, time.Millisecond)

	msg, err := svc.SendMessage(context.Background(), "  How did I sleep?  ")
	require.NoError(t, err)
	assert.Equal(t, "How did I sleep?", msg.Content)
	assert.Equal(t, model.MessageRoleUser, msg.Role)

	assert.Eventually(t, func() bool {
		return len(svc.Messages()) == 2
	}, time.Second, 5*time.Millisecond)

	reply := svc.Messages()[1]
	assert.Equal(t, model.MessageRoleAssistant, reply.Role)
	assert.Contains(t, replySets[0].responses, reply.Content)
}

func TestChatService_ReplyDroppedAfterLogout(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := newChatService(t, st, 30*time.Millisecond)

	_, err := svc.SendMessage(context.Background(), "hello")
	require.NoError(t, err)
	require.NoError(t, st.SetUser(nil))

	time.Sleep(100 * time.Millisecond)
	messages := svc.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, model.MessageRoleUser, messages[0].Role)
}

func TestChatService_SendMessageErrors(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		st := signIn(t, model.UserRoleUser)
		svc := newChatService(t, st, time.Millisecond)

		_, err := svc.SendMessage(context.Background(), "   ")
		assert.ErrorIs(t, err, store.ErrValidation)
	})

	t.Run("no session", func(t *testing.T) {
		st, _ := storetest.NewStore(t)
		svc := newChatService(t, st, time.Millisecond)

		_, err := svc.SendMessage(context.Background(), "hello")
		assert.ErrorIs(t, err, store.ErrNoSession)
		assert.Empty(t, svc.Messages())
	})
}

func TestChatService_SaveAsAdvice(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := newChatService(t, st, time.Hour)

	msg := model.ChatMessage{
		ID:        "msg-1",
		Content:   "Try breathing exercises. Four seconds in, six seconds out.",
		Role:      model.MessageRoleAssistant,
		Timestamp: storetest.Now,
	}
	require.NoError(t, st.AddChatMessage(msg))

	advice, err := svc.SaveAsAdvice(context.Background(), msg.ID)
	require.NoError(t, err)

	assert.Equal(t, msg.Content, advice.Text)
	assert.Equal(t, "Try breathing exercises.", advice.Summary)
	assert.Equal(t, []string{"chat", "lifestyle"}, advice.Tags)
	assert.Equal(t, "AI Recommendation", advice.Category)
	assert.Equal(t, model.AdviceStatusPendingReview, advice.ApprovalStatus)
	assert.Equal(t, model.SeverityLow, advice.UrgencyLevel)
	assert.Equal(t, 75, advice.Confidence)
	assert.Equal(t, model.EvidenceLimited, advice.EvidenceLevel)
	assert.Equal(t, st.State().CurrentUser.ID, advice.UserID)

	stored, ok := st.State().AdviceItem(advice.ID)
	require.True(t, ok)
	assert.Empty(t, stored.ReviewHistory)

	_, err = svc.SaveAsAdvice(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFirstSentence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"One. Two.", "One."},
		{"No period here", "No period here"},
		{"Ends with period.", "Ends with period."},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, firstSentence(tt.in), tt.in)
	}
}

func TestChatService_RestoredProfileNeedsSession(t *testing.T) {
	st := restored(t)
	svc := newChatService(t, st, time.Millisecond)

	before := len(svc.Messages())
	_, err := svc.SendMessage(context.Background(), "hello")
	require.ErrorIs(t, err, store.ErrNoSession)
	assert.Len(t, svc.Messages(), before)
}

func TestChatService_ReplyForEndedSessionIsDropped(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := newChatService(t, st, time.Hour)
	ended := st.State().SessionID

	require.NoError(t, st.SetUser(storetest.RandomUser(model.UserRoleUser)))
	before := len(svc.Messages())

	// a reply whose timer fired just before the session changed
	svc.deliverReply(ended, "hello")
	assert.Len(t, svc.Messages(), before)
}
