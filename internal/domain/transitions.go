package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

// SessionEvent is a user action that moves a session between steps
type SessionEvent string

const (
	EventOpenLanguageMenu SessionEvent = "open_lang_menu"
	EventChooseLanguage   SessionEvent = "choose_language"
	EventRequestSchedule  SessionEvent = "request_schedule"
	EventScheduleSaved    SessionEvent = "schedule_saved"
	EventNavigate         SessionEvent = "navigate"
)

var anyState = []string{
	string(StateIdle),
	string(StateAwaitingLanguageChoice),
	string(StateAwaitingScheduleTime),
}

// Language buttons of an older menu stay clickable, so choose_language
// is accepted from every step.
var sessionEvents = fsm.Events{
	{Name: string(EventOpenLanguageMenu), Src: anyState, Dst: string(StateAwaitingLanguageChoice)},
	{Name: string(EventChooseLanguage), Src: anyState, Dst: string(StateIdle)},
	{Name: string(EventRequestSchedule), Src: anyState, Dst: string(StateAwaitingScheduleTime)},
	{Name: string(EventScheduleSaved), Src: []string{string(StateAwaitingScheduleTime)}, Dst: string(StateIdle)},
	{Name: string(EventNavigate), Src: anyState, Dst: string(StateIdle)},
}

func (s Session) machine() *fsm.FSM {
	return fsm.NewFSM(string(s.State()), sessionEvents, fsm.Callbacks{})
}

// Can reports whether ev is allowed from the session's current step
func (s Session) Can(ev SessionEvent) bool {
	return s.machine().Can(string(ev))
}

// Fire runs ev through the transition table and returns the step it leads to
func (s Session) Fire(ev SessionEvent) (SessionState, error) {
	m := s.machine()
	err := m.Event(context.Background(), string(ev))

	var same fsm.NoTransitionError
	if err != nil && !errors.As(err, &same) {
		return s.State(), fmt.Errorf("%w: %s from %s: %v", ErrInvalidTransition, ev, s.State(), err)
	}
	return SessionState(m.Current()), nil
}
