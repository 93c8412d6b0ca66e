// Package session keeps the in-memory editing sessions of bot users.
package session

import (
	"sync"

	"vacancybot/internal/domain"
)

type slot struct {
	mu      sync.Mutex
	refs    int
	session domain.Session
}

// Store serializes session transitions per user.
// Different users have independent slots and never wait on each other.
type Store struct {
	mu    sync.Mutex
	slots map[int64]*slot
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{slots: make(map[int64]*slot)}
}

// Update applies fn to the current session of userID and stores its result.
// Calls for the same user run one at a time, so fn may block on I/O
// without another transition interleaving.
func (s *Store) Update(userID int64, fn func(domain.Session) domain.Session) domain.Session {
	sl := s.acquire(userID)
	defer s.release(userID, sl)

	sl.session = fn(sl.session)
	return sl.session
}

// Get returns the current session of userID
func (s *Store) Get(userID int64) domain.Session {
	s.mu.Lock()
	sl, ok := s.slots[userID]
	s.mu.Unlock()
	if !ok {
		return domain.IdleSession()
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.session
}

// Len returns the number of users with a slot in memory
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

func (s *Store) acquire(userID int64) *slot {
	s.mu.Lock()
	sl, ok := s.slots[userID]
	if !ok {
		sl = &slot{session: domain.IdleSession()}
		s.slots[userID] = sl
	}
	sl.refs++
	s.mu.Unlock()

	sl.mu.Lock()
	return sl
}

func (s *Store) release(userID int64, sl *slot) {
	sl.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	sl.refs--
	// with no refs left nobody can be holding sl.mu
	if sl.refs == 0 && sl.session.IsIdle() {
		delete(s.slots, userID)
	}
}
