package domain

import "errors"

var (
	// ErrUserNotFound is returned when the user has no profile yet
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidScheduleTime is returned for schedule input outside the HH:MM grammar
	ErrInvalidScheduleTime = errors.New("invalid schedule time")

	// ErrUnsupportedLanguage is returned for language codes outside the supported set
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrMessageNotModified is returned by the transport when an edit carries identical content
	ErrMessageNotModified = errors.New("message is not modified")

	// ErrInvalidTransition is returned when an event is not allowed from the current step
	ErrInvalidTransition = errors.New("invalid session transition")
)
