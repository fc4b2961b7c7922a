package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/internal/synth"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

type replySet struct {
	triggers  []string
	responses []string
}

// the first set whose trigger appears in the message wins
var replySets = []replySet{
	{
		triggers: []string{"sleep", "tired", "insomnia"},
		responses: []string{
			"Based on your recent sleep data, I notice your sleep efficiency could be improved. Consider establishing a consistent bedtime routine and avoiding screens 1 hour before sleep.",
			"Your HRV patterns suggest you might benefit from better sleep hygiene. Try keeping your bedroom cool (65-68°F) and dark for optimal sleep quality.",
			"Sleep debt can impact your recovery and heart rate variability. Consider a gradual adjustment to your sleep schedule, moving bedtime earlier by 15 minutes each night.",
		},
	},
	{
		triggers: []string{"heart rate", "hr", "pulse"},
		responses: []string{
			"Your current heart rate trends look good. The slight elevation during afternoon hours is normal and could be related to caffeine or activity levels.",
			"I notice your resting heart rate has been slightly elevated. This could be due to stress, dehydration, or recent changes in activity. Consider tracking your hydration and stress levels.",
			"Your heart rate variability suggests good autonomic function. To maintain this, focus on consistent sleep patterns and stress management techniques.",
		},
	},
	{
		triggers: []string{"exercise", "workout", "activity"},
		responses: []string{
			"Your activity levels show room for improvement. Based on your heart rate data, you could safely increase your exercise intensity by 10-15% to see cardiovascular benefits.",
			"Great job on staying active! Your step count is consistent. Consider adding some resistance training 2-3 times per week to complement your cardio routine.",
			"Your recovery metrics suggest you're handling your current exercise load well. You might benefit from incorporating some high-intensity intervals once or twice per week.",
		},
	},
	{
		triggers: []string{"stress", "anxiety", "worried"},
		responses: []string{
			"Your HRV patterns indicate elevated stress levels. Consider trying deep breathing exercises - 4 seconds in, 6 seconds out - for 5-10 minutes daily.",
			"Stress can significantly impact your health metrics. Based on your data, meditation or mindfulness practices could be beneficial. Even 10 minutes daily can make a difference.",
			"I notice some stress indicators in your heart rate patterns. Regular physical activity, adequate sleep, and stress management techniques can help improve your overall resilience.",
		},
	},
}

var defaultReplies = []string{
	"That's an interesting question about your health. Based on your recent data patterns, I'd recommend discussing this with your healthcare provider for personalized guidance.",
	"I understand your concern. While I can provide general wellness information, it's important to consult with a medical professional for specific health advice.",
	"Thank you for sharing that with me. For the most accurate guidance regarding your health, I'd suggest speaking with your doctor who can review your complete medical history.",
	"Your health data shows some interesting patterns. For specific medical advice, please consult with a healthcare professional who can provide personalized recommendations.",
}

// ChatConfig bounds the randomized assistant reply delay
type ChatConfig struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// ChatService answers chat messages with canned wellness replies
type ChatService struct {
	store     *store.Store
	scheduler *Scheduler
	config    ChatConfig
	logger    *zap.Logger

	mu  sync.Mutex
	rng *synth.Random
}

// NewChatService creates a ChatService. seed drives reply selection and delay.
func NewChatService(st *store.Store, scheduler *Scheduler, config ChatConfig, seed int64, logger *zap.Logger) *ChatService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &ChatService{
		store:     st,
		scheduler: scheduler,
		config:    config,
		rng:       synth.NewRandom(seed),
		logger:    logger,
	}
}

// GenerateReply picks a reply for message by keyword
func (s *ChatService) GenerateReply(message string) string {
	lower := strings.ToLower(message)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, set := range replySets {
		for _, trigger := range set.triggers {
			if strings.Contains(lower, trigger) {
				return synth.Choice(s.rng, set.responses)
			}
		}
	}
	return synth.Choice(s.rng, defaultReplies)
}

func (s *ChatService) replyDelay() time.Duration {
	if s.config.MaxDelay <= s.config.MinDelay {
		return s.config.MinDelay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.rng.Range(float64(s.config.MinDelay), float64(s.config.MaxDelay)))
}

// SendMessage records a user message and schedules the assistant reply
func (s *ChatService) SendMessage(ctx context.Context, content string) (model.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.ChatMessage{}, validationError("message content is required")
	}
	_, session, err := activeUser(s.store.State())
	if err != nil {
		return model.ChatMessage{}, err
	}

	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      model.MessageRoleUser,
		Timestamp: time.Now().UTC(),
	}
	if err := s.store.AddChatMessage(msg); err != nil {
		s.logger.Error("failed to add chat message", zap.Error(err))
		return model.ChatMessage{}, fmt.Errorf("failed to add chat message: %w", err)
	}

	delay := s.replyDelay()
	if !s.scheduler.Schedule("chat_reply", session, delay, func(session string) {
		s.deliverReply(session, content)
	}) {
		s.logger.Warn("session ended before chat reply was scheduled",
			zap.String("message_id", msg.ID),
		)
		return model.ChatMessage{}, fmt.Errorf("failed to schedule chat reply: %w", store.ErrNoSession)
	}

	s.logger.Info("chat message added successfully",
		zap.String("message_id", msg.ID),
		zap.Duration("reply_delay", delay),
	)
	return msg, nil
}

func (s *ChatService) deliverReply(session, prompt string) {
	reply := model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   s.GenerateReply(prompt),
		Role:      model.MessageRoleAssistant,
		Timestamp: time.Now().UTC(),
	}
	err := s.store.InSession(session).AddChatMessage(reply)
	if errors.Is(err, store.ErrStaleSession) {
		s.logger.Debug("dropping chat reply for ended session")
		return
	}
	if err != nil {
		s.logger.Error("failed to deliver chat reply", zap.Error(err))
		return
	}
	s.logger.Info("chat reply delivered", zap.String("message_id", reply.ID))
}

// Messages returns the chat transcript
func (s *ChatService) Messages() []model.ChatMessage {
	return s.store.State().ChatMessages
}

// firstSentence keeps the text up to the first period, plus the period
// when there was one
func firstSentence(text string) string {
	head, _, found := strings.Cut(text, ".")
	if found {
		return head + "."
	}
	return head
}

// SaveAsAdvice turns a chat message into an advice item awaiting review
func (s *ChatService) SaveAsAdvice(ctx context.Context, messageID string) (model.AdviceItem, error) {
	state := s.store.State()
	user, err := currentUser(state)
	if err != nil {
		return model.AdviceItem{}, err
	}
	msg, ok := state.ChatMessage(messageID)
	if !ok {
		return model.AdviceItem{}, fmt.Errorf("%w: chat message %s", store.ErrNotFound, messageID)
	}

	advice := model.AdviceItem{
		ID:             uuid.NewString(),
		Text:           msg.Content,
		Summary:        firstSentence(msg.Content),
		Tags:           []string{"chat", "lifestyle"},
		Category:       "AI Recommendation",
		CreatedAt:      time.Now().UTC(),
		UserID:         user.ID,
		ApprovalStatus: model.AdviceStatusPendingReview,
		ReviewHistory:  []model.AdviceReview{},
		UrgencyLevel:   model.SeverityLow,
		Confidence:     75,
		EvidenceLevel:  model.EvidenceLimited,
	}
	if err := s.store.AddAdviceItem(advice); err != nil {
		s.logger.Error("failed to save chat message as advice",
			zap.Error(err),
			zap.String("message_id", messageID),
		)
		return model.AdviceItem{}, fmt.Errorf("failed to save advice: %w", err)
	}

	s.logger.Info("chat message saved as advice",
		zap.String("message_id", messageID),
		zap.String("advice_id", advice.ID),
	)
	return advice, nil
}
