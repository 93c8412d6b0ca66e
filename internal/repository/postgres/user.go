package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vacancybot/internal/domain"

	"github.com/jmoiron/sqlx"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

type userRow struct {
	UserID       int64          `db:"user_id"`
	LanguageCode sql.NullString `db:"language_code"`
	Preferences  []byte         `db:"preferences"`
	CreatedAt    time.Time      `db:"created_at"`
}

// GetUser loads a user with its preferences
func (r *UserRepo) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var row userRow
	query := `SELECT user_id, language_code, preferences, created_at FROM users WHERE user_id = $1`
	err := r.db.GetContext(ctx, &row, query, userID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	prefs := map[string]any{}
	if len(row.Preferences) > 0 {
		if err := json.Unmarshal(row.Preferences, &prefs); err != nil {
			return nil, fmt.Errorf("decode preferences of user %d: %w", userID, err)
		}
	}

	return &domain.User{
		UserID:       row.UserID,
		LanguageCode: row.LanguageCode.String,
		Preferences:  prefs,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// UpdateLanguage sets the interface language of a user
func (r *UserRepo) UpdateLanguage(ctx context.Context, userID int64, lang domain.Language) error {
	query := `UPDATE users SET language_code = $2 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, string(lang))
	if err != nil {
		return fmt.Errorf("update language of user %d: %w", userID, err)
	}
	return checkAffected(res, userID)
}

// UpdatePreference sets a single preference key; a nil value stores JSON null
func (r *UserRepo) UpdatePreference(ctx context.Context, userID int64, key string, value *string) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode preference %s: %w", key, err)
	}

	query := `
		UPDATE users
		SET preferences = jsonb_set(COALESCE(preferences, '{}'::jsonb), ARRAY[$2::text], $3::jsonb, true)
		WHERE user_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, userID, key, string(encoded))
	if err != nil {
		return fmt.Errorf("update preference %s of user %d: %w", key, userID, err)
	}
	return checkAffected(res, userID)
}

// EnsureUserExists creates user if not exists
func (r *UserRepo) EnsureUserExists(ctx context.Context, userID int64, lang domain.Language) error {
	query := `
		INSERT INTO users (user_id, language_code)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	code := sql.NullString{String: string(lang), Valid: lang != ""}
	if _, err := r.db.ExecContext(ctx, query, userID, code); err != nil {
		return fmt.Errorf("ensure user %d: %w", userID, err)
	}
	return nil
}

func checkAffected(res sql.Result, userID int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %d: %w", userID, err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
