// Package storetest builds random store fixtures for tests
package storetest

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/vcscsvcscs/hope/apps/backend/internal/persistence"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// lockedSource lets parallel tests share one faker
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

var (
	Source rand.Source = &lockedSource{src: rand.NewSource(time.Now().UnixNano())}
	Faker              = faker.NewWithSeed(Source)
)

// Now is the fixed clock used by stores built with NewStore
var Now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// NewStore returns a store on an in-memory adapter with a fixed seed and
// clock. The ticker is stopped when the test ends.
func NewStore(t testing.TB, opts ...func(*store.Options)) (*store.Store, *persistence.MemoryAdapter) {
	t.Helper()

	adapter := persistence.NewMemoryAdapter(nil)
	options := store.Options{
		Adapter:      adapter,
		Seed:         12345,
		TickInterval: time.Hour,
		Now:          func() time.Time { return Now },
	}
	for _, opt := range opts {
		opt(&options)
	}

	s := store.New(context.Background(), options, zap.NewNop())
	t.Cleanup(s.Close)
	return s, adapter
}

func strp(s string) *string {
	return &s
}

// RandomUser builds a valid profile for role
func RandomUser(role model.UserRole) *model.UserProfile {
	name := Faker.Person().Name()
	age := Faker.IntBetween(18, 90)
	return &model.UserProfile{
		ID:                Faker.UUID().V4(),
		Name:              name,
		Email:             "user-" + Faker.UUID().V4()[:8] + "@example.com",
		Role:              role,
		Age:               &age,
		DeviceConnections: []model.DeviceConnection{},
		CreatedAt:         Now,
	}
}

// RandomMedication builds a valid medication with a fresh id
func RandomMedication() model.Medication {
	return model.Medication{
		ID:        "med-" + Faker.UUID().V4(),
		Name:      Faker.Lorem().Word(),
		Dosage:    "10mg",
		Frequency: "Daily",
		StartDate: Now.Add(-30 * 24 * time.Hour),
		Color:     "#3B82F6",
	}
}

// RandomDoseLog builds a taken dose for medicationID
func RandomDoseLog(medicationID string) model.DoseLog {
	taken := Now
	return model.DoseLog{
		MedicationID:  medicationID,
		ScheduledTime: Now,
		TakenTime:     &taken,
		Taken:         true,
	}
}

// RandomChatMessage builds a user chat message
func RandomChatMessage() model.ChatMessage {
	return model.ChatMessage{
		ID:        Faker.UUID().V4(),
		Content:   Faker.Lorem().Sentence(8),
		Role:      model.MessageRoleUser,
		Timestamp: Now,
	}
}

// RandomAdvice builds an advice item pending review
func RandomAdvice() model.AdviceItem {
	text := Faker.Lorem().Sentence(12)
	return model.AdviceItem{
		ID:             "advice-" + Faker.UUID().V4(),
		Text:           text,
		Summary:        text[:min(len(text), 40)],
		Tags:           []string{"lifestyle"},
		Category:       "AI Recommendation",
		CreatedAt:      Now,
		UserID:         "current-user",
		ApprovalStatus: model.AdviceStatusPendingReview,
		ReviewHistory:  []model.AdviceReview{},
		UrgencyLevel:   model.SeverityLow,
		Confidence:     Faker.IntBetween(50, 99),
		EvidenceLevel:  model.EvidenceLimited,
	}
}

// RandomReview builds a review moving advice to status
func RandomReview(status model.AdviceApprovalStatus) model.AdviceReview {
	return model.AdviceReview{
		ReviewerID:          "doctor-" + Faker.UUID().V4(),
		ReviewerName:        "Dr. " + Faker.Person().Name(),
		ReviewerCredentials: "MD",
		Status:              status,
		Notes:               strp(Faker.Lorem().Sentence(6)),
	}
}

// RandomUpload builds a freshly uploaded file
func RandomUpload() model.UploadItem {
	return model.UploadItem{
		ID:         "upload-" + Faker.UUID().V4(),
		FileName:   Faker.Lorem().Word() + ".pdf",
		FileType:   model.FileTypeLab,
		Status:     model.UploadStatusUploaded,
		UploadedAt: Now,
		UserID:     "current-user",
	}
}
