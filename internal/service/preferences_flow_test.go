package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"vacancybot/internal/domain"
	"vacancybot/internal/i18n"
	"vacancybot/internal/repository"
	"vacancybot/internal/repository/memory"
	"vacancybot/internal/session"
	"vacancybot/internal/testutil"
	"vacancybot/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID int64 = 42

type flowFixture struct {
	flow     *PreferencesFlow
	msgr     *testutil.FakeMessenger
	repo     repository.UserRepository
	renderer *view.Renderer
}

func newFlow(t *testing.T, repo repository.UserRepository) *flowFixture {
	t.Helper()
	logger := testutil.NewTestLogger()
	msgr := testutil.NewFakeMessenger()
	renderer := view.NewRenderer(i18n.NewCatalog(domain.LangEnglish))
	prefs := NewPreferenceService(repo)
	lifecycle := NewLifecycle(msgr, prefs, renderer, logger)

	return &flowFixture{
		flow:     NewPreferencesFlow(prefs, renderer, msgr, lifecycle, session.NewStore(), logger),
		msgr:     msgr,
		repo:     repo,
		renderer: renderer,
	}
}

func newMemoryFlow(t *testing.T, schedule string) *flowFixture {
	t.Helper()
	repo := memory.NewUserRepo()
	ctx := context.Background()
	require.NoError(t, repo.EnsureUserExists(ctx, testUserID, domain.LangEnglish))
	if schedule != "" {
		require.NoError(t, repo.UpdatePreference(ctx, testUserID, domain.PrefVacancyScheduleTime, &schedule))
	}
	return newFlow(t, repo)
}

func buttonRequest(messageID int) Request {
	return Request{
		UserID:     testUserID,
		ChatID:     testUserID,
		Message:    domain.MessageRef{ChatID: testUserID, MessageID: messageID},
		FromButton: true,
	}
}

func textRequest(messageID int) Request {
	return Request{
		UserID:  testUserID,
		ChatID:  testUserID,
		Message: domain.MessageRef{ChatID: testUserID, MessageID: messageID},
	}
}

func storedSchedule(t *testing.T, repo repository.UserRepository) (string, bool) {
	t.Helper()
	u, err := repo.GetUser(context.Background(), testUserID)
	require.NoError(t, err)
	return u.ScheduleTime()
}

func TestFlow_RequestScheduleEdit(t *testing.T) {
	fx := newMemoryFlow(t, "")
	ctx := context.Background()

	require.NoError(t, fx.flow.RequestScheduleEdit(ctx, buttonRequest(10)))

	s := fx.flow.Session(testUserID)
	assert.Equal(t, domain.StateAwaitingScheduleTime, s.State())

	anchor, ok := s.Anchor()
	require.True(t, ok)
	assert.Equal(t, 10, anchor.MessageID)

	prompt, ok := s.Prompt()
	require.True(t, ok)
	assert.Equal(t, fx.msgr.LastSent().Ref, prompt)
	assert.Contains(t, fx.msgr.LastSent().Text, "HH:MM")
}

func TestFlow_RequestScheduleEdit_FromCommandHasNoAnchor(t *testing.T) {
	fx := newMemoryFlow(t, "")

	require.NoError(t, fx.flow.RequestScheduleEdit(context.Background(), textRequest(10)))

	s := fx.flow.Session(testUserID)
	_, ok := s.Anchor()
	assert.False(t, ok)
	_, ok = s.Prompt()
	assert.True(t, ok)
}

func TestFlow_InvalidTimeKeepsSession(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("GetUser", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, domain.LangEnglish, ""), nil)

	fx := newFlow(t, mockRepo)
	ctx := context.Background()

	require.NoError(t, fx.flow.RequestScheduleEdit(ctx, buttonRequest(10)))
	before := fx.flow.Session(testUserID)

	handled, err := fx.flow.TextInput(ctx, textRequest(20), "25:00")
	require.NoError(t, err)
	assert.True(t, handled)

	after := fx.flow.Session(testUserID)
	assert.Equal(t, before, after)
	assert.Equal(t, fx.renderer.Catalog().T(domain.LangEnglish, i18n.KeyScheduleInvalid), fx.msgr.LastSent().Text)
	assert.Empty(t, fx.msgr.Deleted)
	mockRepo.AssertNotCalled(t, "UpdatePreference", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFlow_ValidTimeSavesAndRefreshes(t *testing.T) {
	fx := newMemoryFlow(t, "")
	ctx := context.Background()

	require.NoError(t, fx.flow.RequestScheduleEdit(ctx, buttonRequest(10)))
	prompt, _ := fx.flow.Session(testUserID).Prompt()

	handled, err := fx.flow.TextInput(ctx, textRequest(20), "9:30")
	require.NoError(t, err)
	assert.True(t, handled)

	v, ok := storedSchedule(t, fx.repo)
	assert.True(t, ok)
	assert.Equal(t, "09:30", v)

	confirmation := fx.msgr.LastSent()
	assert.Contains(t, confirmation.Text, "09:30")

	assert.ElementsMatch(t, []domain.MessageRef{
		prompt,
		{ChatID: testUserID, MessageID: 20},
		confirmation.Ref,
	}, fx.msgr.Deleted)

	require.Len(t, fx.msgr.Edited, 1)
	assert.Equal(t, 10, fx.msgr.Edited[0].Ref.MessageID)
	assert.Contains(t, fx.msgr.Edited[0].Text, "09:30")

	assert.True(t, fx.flow.Session(testUserID).IsIdle())
}

func TestFlow_ClearRemovesScheduleTime(t *testing.T) {
	fx := newMemoryFlow(t, "09:30")
	ctx := context.Background()

	require.NoError(t, fx.flow.RequestScheduleEdit(ctx, buttonRequest(10)))

	handled, err := fx.flow.TextInput(ctx, textRequest(20), "  Clear ")
	require.NoError(t, err)
	assert.True(t, handled)

	_, ok := storedSchedule(t, fx.repo)
	assert.False(t, ok)

	require.Len(t, fx.msgr.Edited, 1)
	assert.Contains(t, fx.msgr.Edited[0].Text, "not set")
	assert.True(t, fx.flow.Session(testUserID).IsIdle())
}

func TestFlow_ClearWritesNull(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("GetUser", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, domain.LangRussian, "09:30"), nil)
	mockRepo.On("UpdatePreference", mock.Anything, testUserID, domain.PrefVacancyScheduleTime,
		mock.MatchedBy(func(v *string) bool { return v == nil })).Return(nil).Once()

	fx := newFlow(t, mockRepo)
	ctx := context.Background()

	require.NoError(t, fx.flow.RequestScheduleEdit(ctx, buttonRequest(10)))
	handled, err := fx.flow.TextInput(ctx, textRequest(20), "сбросить")
	require.NoError(t, err)
	assert.True(t, handled)

	mockRepo.AssertExpectations(t)
}

func TestFlow_ChooseUnsupportedLanguage(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("GetUser", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, domain.LangEnglish, ""), nil)

	fx := newFlow(t, mockRepo)
	ctx := context.Background()

	require.NoError(t, fx.flow.OpenLanguageMenu(ctx, buttonRequest(10)))
	assert.Equal(t, domain.StateAwaitingLanguageChoice, fx.flow.Session(testUserID).State())

	require.NoError(t, fx.flow.ChooseLanguage(ctx, buttonRequest(11), "fr"))

	assert.Equal(t, domain.StateAwaitingLanguageChoice, fx.flow.Session(testUserID).State())
	assert.Equal(t, fx.renderer.Catalog().T(domain.LangEnglish, i18n.KeyLangInvalid), fx.msgr.LastSent().Text)
	assert.Empty(t, fx.msgr.Edited)
	mockRepo.AssertNotCalled(t, "UpdateLanguage", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlow_ChooseLanguage(t *testing.T) {
	fx := newMemoryFlow(t, "07:00")
	ctx := context.Background()

	require.NoError(t, fx.flow.OpenLanguageMenu(ctx, buttonRequest(10)))
	menu := fx.msgr.LastSent()

	require.NoError(t, fx.flow.ChooseLanguage(ctx, Request{
		UserID:     testUserID,
		ChatID:     testUserID,
		Message:    menu.Ref,
		FromButton: true,
	}, "ru"))

	u, err := fx.repo.GetUser(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "ru", u.LanguageCode)

	assert.Contains(t, fx.msgr.LastSent().Text, "Язык изменён")
	require.Len(t, fx.msgr.Edited, 1)
	assert.Equal(t, menu.Ref, fx.msgr.Edited[0].Ref)
	assert.Contains(t, fx.msgr.Edited[0].Text, "Настройки")
	assert.True(t, fx.flow.Session(testUserID).IsIdle())
}

func TestFlow_LanguageMenuThenBack(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("GetUser", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, domain.LangEnglish, ""), nil)

	fx := newFlow(t, mockRepo)
	ctx := context.Background()

	require.NoError(t, fx.flow.OpenLanguageMenu(ctx, buttonRequest(10)))
	require.NoError(t, fx.flow.NavigateBack(ctx, buttonRequest(10)))

	s := fx.flow.Session(testUserID)
	assert.True(t, s.IsIdle())
	_, ok := s.Prompt()
	assert.False(t, ok)

	require.Len(t, fx.msgr.Edited, 1)
	assert.Contains(t, fx.msgr.Edited[0].Text, "Profile")
	mockRepo.AssertNotCalled(t, "UpdateLanguage", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpdatePreference", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFlow_NavigationDiscardsPrompt(t *testing.T) {
	fx := newMemoryFlow(t, "")
	ctx := context.Background()

	require.NoError(t, fx.flow.RequestScheduleEdit(ctx, buttonRequest(10)))
	prompt, _ := fx.flow.Session(testUserID).Prompt()

	require.NoError(t, fx.flow.OpenPreferences(ctx, buttonRequest(10)))

	assert.True(t, fx.flow.Session(testUserID).IsIdle())
	assert.Equal(t, []domain.MessageRef{prompt}, fx.msgr.Deleted)
}

func TestFlow_TextOutsideSessionIsNotHandled(t *testing.T) {
	fx := newMemoryFlow(t, "")
	ctx := context.Background()

	handled, err := fx.flow.TextInput(ctx, textRequest(20), "9:30")
	assert.NoError(t, err)
	assert.False(t, handled)

	require.NoError(t, fx.flow.OpenLanguageMenu(ctx, buttonRequest(10)))
	sent := len(fx.msgr.Sent)

	handled, err = fx.flow.TextInput(ctx, textRequest(21), "9:30")
	assert.NoError(t, err)
	assert.False(t, handled)
	assert.Len(t, fx.msgr.Sent, sent)
	_, ok := storedSchedule(t, fx.repo)
	assert.False(t, ok)
}

func TestFlow_StoreFailureKeepsState(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("GetUser", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, domain.LangEnglish, ""), nil)
	mockRepo.On("UpdatePreference", mock.Anything, testUserID, domain.PrefVacancyScheduleTime, mock.Anything).
		Return(errors.New("connection refused"))

	fx := newFlow(t, mockRepo)
	ctx := context.Background()

	require.NoError(t, fx.flow.RequestScheduleEdit(ctx, buttonRequest(10)))
	before := fx.flow.Session(testUserID)

	handled, err := fx.flow.TextInput(ctx, textRequest(20), "10:00")
	assert.True(t, handled)
	assert.Error(t, err)

	assert.Equal(t, before, fx.flow.Session(testUserID))
	assert.Equal(t, fx.renderer.Catalog().T(domain.LangEnglish, i18n.KeyGenericError), fx.msgr.LastSent().Text)
	assert.Empty(t, fx.msgr.Deleted)
	assert.Empty(t, fx.msgr.Edited)
}

func TestFlow_LanguageStoreFailureKeepsState(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("GetUser", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, domain.LangEnglish, ""), nil)
	mockRepo.On("UpdateLanguage", mock.Anything, testUserID, domain.LangRussian).Return(errors.New("timeout"))

	fx := newFlow(t, mockRepo)
	ctx := context.Background()

	require.NoError(t, fx.flow.OpenLanguageMenu(ctx, buttonRequest(10)))
	err := fx.flow.ChooseLanguage(ctx, buttonRequest(11), "ru")

	assert.Error(t, err)
	assert.Equal(t, domain.StateAwaitingLanguageChoice, fx.flow.Session(testUserID).State())
	assert.Equal(t, fx.renderer.Catalog().T(domain.LangEnglish, i18n.KeyGenericError), fx.msgr.LastSent().Text)
}

func TestFlow_StoreFailureUsesStoredLanguage(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("GetUser", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, domain.LangRussian, ""), nil)
	mockRepo.On("UpdatePreference", mock.Anything, testUserID, domain.PrefVacancyScheduleTime, mock.Anything).
		Return(errors.New("connection refused"))
	mockRepo.On("UpdateLanguage", mock.Anything, testUserID, domain.LangEnglish).Return(errors.New("timeout"))

	fx := newFlow(t, mockRepo)
	ctx := context.Background()
	want := fx.renderer.Catalog().T(domain.LangRussian, i18n.KeyGenericError)

	btn := buttonRequest(10)
	btn.LangHint = "en-US"
	require.NoError(t, fx.flow.RequestScheduleEdit(ctx, btn))

	txt := textRequest(20)
	txt.LangHint = "en-US"
	_, err := fx.flow.TextInput(ctx, txt, "10:00")
	assert.Error(t, err)
	assert.Equal(t, want, fx.msgr.LastSent().Text)

	err = fx.flow.ChooseLanguage(ctx, btn, "en")
	assert.Error(t, err)
	assert.Equal(t, want, fx.msgr.LastSent().Text)
}

func TestFlow_NoProfile(t *testing.T) {
	fx := newFlow(t, memory.NewUserRepo())
	ctx := context.Background()

	err := fx.flow.RequestScheduleEdit(ctx, buttonRequest(10))
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	assert.True(t, fx.flow.Session(testUserID).IsIdle())
	assert.Equal(t, fx.renderer.Catalog().T(domain.LangEnglish, i18n.KeyNoProfile), fx.msgr.LastSent().Text)

	err = fx.flow.OpenLanguageMenu(ctx, buttonRequest(10))
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	assert.True(t, fx.flow.Session(testUserID).IsIdle())
}

func TestFlow_PromptSendFailureLeavesSession(t *testing.T) {
	fx := newMemoryFlow(t, "")
	fx.msgr.SendErr = errors.New("bot was blocked by the user")

	err := fx.flow.RequestScheduleEdit(context.Background(), buttonRequest(10))

	assert.Error(t, err)
	assert.True(t, fx.flow.Session(testUserID).IsIdle())
}

func TestFlow_RepeatedEditReplacesPrompt(t *testing.T) {
	fx := newMemoryFlow(t, "")
	ctx := context.Background()

	require.NoError(t, fx.flow.RequestScheduleEdit(ctx, buttonRequest(10)))
	first, _ := fx.flow.Session(testUserID).Prompt()

	require.NoError(t, fx.flow.RequestScheduleEdit(ctx, buttonRequest(10)))
	second, _ := fx.flow.Session(testUserID).Prompt()

	assert.NotEqual(t, first, second)
	assert.Equal(t, []domain.MessageRef{first}, fx.msgr.Deleted)
}

func TestFlow_TranscriptFailuresAreInvisible(t *testing.T) {
	fx := newMemoryFlow(t, "")
	ctx := context.Background()

	require.NoError(t, fx.flow.RequestScheduleEdit(ctx, buttonRequest(10)))
	prompt, _ := fx.flow.Session(testUserID).Prompt()
	fx.msgr.DeleteErr[prompt] = errors.New("message can't be deleted")
	fx.msgr.EditErr = errors.New("message to edit not found")

	handled, err := fx.flow.TextInput(ctx, textRequest(20), "06:00")
	assert.True(t, handled)
	assert.NoError(t, err)
	assert.True(t, fx.flow.Session(testUserID).IsIdle())

	v, _ := storedSchedule(t, fx.repo)
	assert.Equal(t, "06:00", v)
}

func TestFlow_PromptIffAwaitingScheduleTime(t *testing.T) {
	fx := newMemoryFlow(t, "")
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))

	inputs := []string{"9:30", "25:00", "clear", "hello", ""}
	actions := []func(i int) error{
		func(i int) error { return fx.flow.OpenPreferences(ctx, buttonRequest(i)) },
		func(i int) error { return fx.flow.OpenLanguageMenu(ctx, buttonRequest(i)) },
		func(i int) error { return fx.flow.ChooseLanguage(ctx, buttonRequest(i), "en") },
		func(i int) error { return fx.flow.ChooseLanguage(ctx, buttonRequest(i), "xx") },
		func(i int) error { return fx.flow.RequestScheduleEdit(ctx, buttonRequest(i)) },
		func(i int) error {
			_, err := fx.flow.TextInput(ctx, textRequest(i), inputs[rng.Intn(len(inputs))])
			return err
		},
		func(i int) error { return fx.flow.NavigateBack(ctx, buttonRequest(i)) },
	}

	for i := 1; i <= 300; i++ {
		require.NoError(t, actions[rng.Intn(len(actions))](i))

		s := fx.flow.Session(testUserID)
		_, hasPrompt := s.Prompt()
		assert.Equal(t, s.State() == domain.StateAwaitingScheduleTime, hasPrompt, "step %d", i)
	}
}
