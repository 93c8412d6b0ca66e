package testutil

import (
	"context"
	"sync"

	"vacancybot/internal/domain"
	"vacancybot/internal/view"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLanguage(ctx context.Context, userID int64, lang domain.Language) error {
	args := m.Called(ctx, userID, lang)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePreference(ctx context.Context, userID int64, key string, value *string) error {
	args := m.Called(ctx, userID, key, value)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(ctx context.Context, userID int64, lang domain.Language) error {
	args := m.Called(ctx, userID, lang)
	return args.Error(0)
}

// Message is a message recorded by FakeMessenger
type Message struct {
	Ref      domain.MessageRef
	Text     string
	Keyboard *domain.Keyboard
}

// FakeMessenger records transcript operations in memory.
// Error fields make the matching operation fail.
type FakeMessenger struct {
	mu     sync.Mutex
	nextID int

	Sent    []Message
	Edited  []Message
	Deleted []domain.MessageRef

	SendErr   error
	EditErr   error
	DeleteErr map[domain.MessageRef]error
}

// NewFakeMessenger creates a messenger whose message ids start at 100
func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{nextID: 100, DeleteErr: make(map[domain.MessageRef]error)}
}

func (f *FakeMessenger) Send(ctx context.Context, chatID int64, v view.View) (domain.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SendErr != nil {
		return domain.MessageRef{}, f.SendErr
	}
	f.nextID++
	ref := domain.MessageRef{ChatID: chatID, MessageID: f.nextID}
	f.Sent = append(f.Sent, Message{Ref: ref, Text: v.Text, Keyboard: v.Keyboard})
	return ref, nil
}

func (f *FakeMessenger) Edit(ctx context.Context, ref domain.MessageRef, v view.View) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.EditErr != nil {
		return f.EditErr
	}
	f.Edited = append(f.Edited, Message{Ref: ref, Text: v.Text, Keyboard: v.Keyboard})
	return nil
}

func (f *FakeMessenger) Delete(ctx context.Context, ref domain.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.DeleteErr[ref]; err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, ref)
	return nil
}

// LastSent returns the most recently sent message
func (f *FakeMessenger) LastSent() Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Sent) == 0 {
		return Message{}
	}
	return f.Sent[len(f.Sent)-1]
}
