package domain

import "time"

// PrefVacancyScheduleTime is the preference key holding the daily digest time
const PrefVacancyScheduleTime = "vacancy_schedule_time"

// User represents a bot user profile
type User struct {
	UserID       int64
	LanguageCode string
	Preferences  map[string]any
	CreatedAt    time.Time
}

// ScheduleTime returns the stored vacancy digest time, if any
func (u *User) ScheduleTime() (string, bool) {
	if u == nil || u.Preferences == nil {
		return "", false
	}
	v, ok := u.Preferences[PrefVacancyScheduleTime].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Clone returns a deep copy of the user so callers never share the preferences map
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Preferences != nil {
		c.Preferences = make(map[string]any, len(u.Preferences))
		for k, v := range u.Preferences {
			c.Preferences[k] = v
		}
	}
	return &c
}
