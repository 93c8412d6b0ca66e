package domain

// MessageRef identifies a chat message
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// IsZero reports whether the reference points nowhere
func (r MessageRef) IsZero() bool {
	return r.ChatID == 0 || r.MessageID == 0
}

// SessionState represents user's current preferences editing step
type SessionState string

const (
	StateIdle                   SessionState = "idle"
	StateAwaitingLanguageChoice SessionState = "awaiting_language_choice"
	StateAwaitingScheduleTime   SessionState = "awaiting_schedule_time"
)

// Session holds the transient editing state of one user.
//
// Fields are unexported so a Session can only be built through the
// constructors below: the prompt reference exists only while awaiting
// schedule time input, and idle or language-choice sessions carry no refs.
type Session struct {
	state  SessionState
	anchor MessageRef
	prompt MessageRef
}

// IdleSession returns a session with no editing in progress
func IdleSession() Session {
	return Session{state: StateIdle}
}

// AwaitingLanguageChoice returns a session waiting for a language button
func AwaitingLanguageChoice() Session {
	return Session{state: StateAwaitingLanguageChoice}
}

// AwaitingScheduleTime returns a session waiting for free-text time input.
// anchor may be zero when the edit was not started from a preferences view.
func AwaitingScheduleTime(anchor, prompt MessageRef) Session {
	return Session{
		state:  StateAwaitingScheduleTime,
		anchor: anchor,
		prompt: prompt,
	}
}

// State returns the current step; the zero Session is idle
func (s Session) State() SessionState {
	if s.state == "" {
		return StateIdle
	}
	return s.state
}

// IsIdle reports whether no editing is in progress
func (s Session) IsIdle() bool {
	return s.State() == StateIdle
}

// Anchor returns the message showing the preferences view
func (s Session) Anchor() (MessageRef, bool) {
	if s.State() != StateAwaitingScheduleTime || s.anchor.IsZero() {
		return MessageRef{}, false
	}
	return s.anchor, true
}

// Prompt returns the transient message asking for input
func (s Session) Prompt() (MessageRef, bool) {
	if s.State() != StateAwaitingScheduleTime || s.prompt.IsZero() {
		return MessageRef{}, false
	}
	return s.prompt, true
}
