package service

import (
	"context"
	"fmt"

	"vacancybot/internal/domain"
	"vacancybot/internal/repository"
)

// PreferenceService reads and writes user preferences
type PreferenceService struct {
	userRepo repository.UserRepository
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(userRepo repository.UserRepository) *PreferenceService {
	return &PreferenceService{userRepo: userRepo}
}

// Profile returns the stored user or domain.ErrUserNotFound
func (s *PreferenceService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.GetUser(ctx, userID)
}

// EnsureProfile creates user record if doesn't exist
func (s *PreferenceService) EnsureProfile(ctx context.Context, userID int64, lang domain.Language) error {
	return s.userRepo.EnsureUserExists(ctx, userID, lang)
}

// SetLanguage validates code and stores it as the interface language
func (s *PreferenceService) SetLanguage(ctx context.Context, userID int64, code string) (domain.Language, error) {
	lang, ok := domain.ParseLanguage(code)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, code)
	}
	if err := s.userRepo.UpdateLanguage(ctx, userID, lang); err != nil {
		return "", err
	}
	return lang, nil
}

// SetScheduleTime stores the digest time, or null when t is cleared
func (s *PreferenceService) SetScheduleTime(ctx context.Context, userID int64, t domain.ParsedTime) error {
	return s.userRepo.UpdatePreference(ctx, userID, domain.PrefVacancyScheduleTime, t.Value())
}
