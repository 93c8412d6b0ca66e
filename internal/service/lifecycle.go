package service

import (
	"context"
	"errors"
	"fmt"

	"vacancybot/internal/domain"
	"vacancybot/internal/view"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Messenger sends, edits and deletes chat messages
type Messenger interface {
	Send(ctx context.Context, chatID int64, v view.View) (domain.MessageRef, error)
	Edit(ctx context.Context, ref domain.MessageRef, v view.View) error
	Delete(ctx context.Context, ref domain.MessageRef) error
}

// CleanupResult reports what Cleanup did. Err aggregates delete failures.
type CleanupResult struct {
	Attempted int
	Deleted   int
	Err       error
}

// RefreshResult reports what Refresh did
type RefreshResult struct {
	Refreshed bool
	Skipped   string
	Err       error
}

// Lifecycle keeps the chat transcript tidy around an edit.
// Its failures are cosmetic: they are logged and reported, never returned.
type Lifecycle struct {
	messenger Messenger
	prefs     *PreferenceService
	renderer  *view.Renderer
	logger    *zap.Logger
}

// NewLifecycle creates a new message lifecycle manager
func NewLifecycle(messenger Messenger, prefs *PreferenceService, renderer *view.Renderer, logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		messenger: messenger,
		prefs:     prefs,
		renderer:  renderer,
		logger:    logger,
	}
}

// Cleanup deletes every non-zero ref. Each delete is attempted regardless
// of earlier failures.
func (l *Lifecycle) Cleanup(ctx context.Context, refs ...domain.MessageRef) CleanupResult {
	var (
		res  CleanupResult
		errs *multierror.Error
	)

	for _, ref := range refs {
		if ref.IsZero() {
			continue
		}
		res.Attempted++

		if err := l.messenger.Delete(ctx, ref); err != nil {
			l.logger.Debug("Failed to delete message",
				zap.Int64("chat_id", ref.ChatID),
				zap.Int("message_id", ref.MessageID),
				zap.Error(err),
			)
			errs = multierror.Append(errs, fmt.Errorf("delete message %d: %w", ref.MessageID, err))
			continue
		}
		res.Deleted++
	}

	res.Err = errs.ErrorOrNil()
	return res
}

// Refresh re-renders the preferences view of userID into anchor.
// A zero anchor means there is nothing to refresh.
func (l *Lifecycle) Refresh(ctx context.Context, anchor domain.MessageRef, userID int64, hint string) RefreshResult {
	if anchor.IsZero() {
		return RefreshResult{Skipped: "no anchor"}
	}

	user, err := l.prefs.Profile(ctx, userID)
	if err != nil {
		l.logger.Debug("Failed to load user for refresh", zap.Int64("user_id", userID), zap.Error(err))
		return RefreshResult{Skipped: "user unavailable", Err: err}
	}

	err = l.messenger.Edit(ctx, anchor, l.renderer.Preferences(user, hint))
	if errors.Is(err, domain.ErrMessageNotModified) {
		return RefreshResult{Refreshed: true}
	}
	if err != nil {
		l.logger.Debug("Failed to refresh preferences message",
			zap.Int64("user_id", userID),
			zap.Int("message_id", anchor.MessageID),
			zap.Error(err),
		)
		return RefreshResult{Err: err}
	}

	return RefreshResult{Refreshed: true}
}
