package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// clearKeywords maps each language to the words that remove the schedule time.
// Input is matched against every language so a user can type either set.
var clearKeywords = map[Language][]string{
	LangEnglish: {"clear", "none", "null"},
	LangRussian: {"удалить", "сбросить"},
}

// ClearKeywords returns the clear words of a language
func ClearKeywords(lang Language) []string {
	return append([]string(nil), clearKeywords[lang]...)
}

// ParsedTime is either an explicit removal or an hour and minute
type ParsedTime struct {
	cleared bool
	hour    int
	minute  int
}

// Cleared returns a ParsedTime that removes the stored schedule time
func Cleared() ParsedTime {
	return ParsedTime{cleared: true}
}

// SetTime returns a ParsedTime for a valid hour and minute
func SetTime(hour, minute int) ParsedTime {
	return ParsedTime{hour: hour, minute: minute}
}

// IsCleared reports whether the value removes the schedule time
func (p ParsedTime) IsCleared() bool { return p.cleared }

// Hour returns the hour of a set time
func (p ParsedTime) Hour() int { return p.hour }

// Minute returns the minute of a set time
func (p ParsedTime) Minute() int { return p.minute }

// String returns the canonical HH:MM form, or "" when cleared
func (p ParsedTime) String() string {
	if p.cleared {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", p.hour, p.minute)
}

// Value returns the stored representation: nil when cleared
func (p ParsedTime) Value() *string {
	if p.cleared {
		return nil
	}
	s := p.String()
	return &s
}

// ParseScheduleTime validates user input as a clear keyword or an H:M time
func ParseScheduleTime(raw string) (ParsedTime, error) {
	text := strings.TrimSpace(raw)
	if isClearKeyword(strings.ToLower(text)) {
		return Cleared(), nil
	}

	parts := strings.Split(text, ":")
	if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
		return ParsedTime{}, fmt.Errorf("%w: %q", ErrInvalidScheduleTime, raw)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ParsedTime{}, fmt.Errorf("%w: %q", ErrInvalidScheduleTime, raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return ParsedTime{}, fmt.Errorf("%w: %q", ErrInvalidScheduleTime, raw)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ParsedTime{}, fmt.Errorf("%w: %q out of range", ErrInvalidScheduleTime, raw)
	}

	return SetTime(hour, minute), nil
}

func isClearKeyword(s string) bool {
	for _, words := range clearKeywords {
		for _, w := range words {
			if s == w {
				return true
			}
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
