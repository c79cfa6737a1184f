package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"famcoach/internal/config"
	"famcoach/internal/model"

	"github.com/stretchr/testify/mock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database and migrates the full
// schema. Each test gets its own database, named after the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.LoginCode{},
		&model.Profile{},
		&model.DailyLog{},
		&model.Insight{},
		&model.ChatMessage{},
		&model.AIUsage{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "FamCoach"
	cfg.App.AssistDailyLimit = 20
	cfg.App.InsightHistory = 5
	cfg.App.TrendWindowDays = 14
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.AccessTokenTTL = time.Hour
	cfg.Auth.CodeTTL = 10 * time.Minute
	cfg.LLM.PrimaryModel = "model-a"
	cfg.LLM.FallbackModels = []string{"model-b", "model-c"}
	return cfg
}

// fakeLLM scripts per-model responses and counts every call.
type fakeLLM struct {
	mu        sync.Mutex
	responses map[string]string // model -> text; missing model fails
	failAll   bool
	calls     int
	lastModel string
}

func (f *fakeLLM) Generate(ctx context.Context, model, prompt string, maxTokens int, temperature float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastModel = model
	if f.failAll {
		return "", fmt.Errorf("fake failure for %s", model)
	}
	if text, ok := f.responses[model]; ok {
		return text, nil
	}
	return "", fmt.Errorf("fake failure for %s", model)
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// MockMailer records sent mail.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
