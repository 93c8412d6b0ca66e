package testutil

import (
	"time"

	"vacancybot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user with an optional schedule time
func NewTestUser(userID int64, lang domain.Language, schedule string) *domain.User {
	prefs := map[string]any{}
	if schedule != "" {
		prefs[domain.PrefVacancyScheduleTime] = schedule
	}
	return &domain.User{
		UserID:       userID,
		LanguageCode: string(lang),
		Preferences:  prefs,
		CreatedAt:    time.Now(),
	}
}
