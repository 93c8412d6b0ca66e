package repository

import (
	"context"

	"vacancybot/internal/domain"
)

// UserRepository defines user profile and preference operations.
// Methods return domain.ErrUserNotFound for unknown users.
type UserRepository interface {
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	UpdateLanguage(ctx context.Context, userID int64, lang domain.Language) error
	UpdatePreference(ctx context.Context, userID int64, key string, value *string) error
	EnsureUserExists(ctx context.Context, userID int64, lang domain.Language) error
}
