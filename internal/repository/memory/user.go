// Package memory provides process-local repositories for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"vacancybot/internal/domain"
)

// UserRepo implements repository.UserRepository in memory
type UserRepo struct {
	mu    sync.RWMutex
	users map[int64]*domain.User
	now   func() time.Time
}

// NewUserRepo creates an empty in-memory user repository
func NewUserRepo() *UserRepo {
	return &UserRepo{
		users: make(map[int64]*domain.User),
		now:   time.Now,
	}
}

// GetUser returns a copy of the stored user
func (r *UserRepo) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

// UpdateLanguage sets the interface language of a user
func (r *UserRepo) UpdateLanguage(ctx context.Context, userID int64, lang domain.Language) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LanguageCode = string(lang)
	return nil
}

// UpdatePreference sets a single preference key; a nil value stores null
func (r *UserRepo) UpdatePreference(ctx context.Context, userID int64, key string, value *string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.Preferences == nil {
		u.Preferences = make(map[string]any)
	}
	if value == nil {
		u.Preferences[key] = nil
	} else {
		u.Preferences[key] = *value
	}
	return nil
}

// EnsureUserExists creates user if not exists
func (r *UserRepo) EnsureUserExists(ctx context.Context, userID int64, lang domain.Language) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; ok {
		return nil
	}
	r.users[userID] = &domain.User{
		UserID:       userID,
		LanguageCode: string(lang),
		Preferences:  make(map[string]any),
		CreatedAt:    r.now(),
	}
	return nil
}
