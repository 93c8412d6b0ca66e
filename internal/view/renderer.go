// Package view builds the localized preferences screens.
package view

import (
	"vacancybot/internal/domain"
	"vacancybot/internal/i18n"
)

// View is a rendered message: text plus an optional inline keyboard
type View struct {
	Text     string
	Keyboard *domain.Keyboard
}

// Renderer turns user state into views. It performs no I/O.
type Renderer struct {
	catalog *i18n.Catalog
}

// NewRenderer creates a renderer backed by catalog
func NewRenderer(catalog *i18n.Catalog) *Renderer {
	return &Renderer{catalog: catalog}
}

// Catalog returns the underlying text catalog
func (r *Renderer) Catalog() *i18n.Catalog {
	return r.catalog
}

// Language resolves the language a user's views are rendered in
func (r *Renderer) Language(user *domain.User, hint string) domain.Language {
	if user == nil {
		return r.catalog.Detect("", hint)
	}
	return r.catalog.Detect(user.LanguageCode, hint)
}

// Preferences renders the preferences summary of user
func (r *Renderer) Preferences(user *domain.User, hint string) View {
	lang := r.Language(user, hint)
	name, schedule := r.summary(user, lang)

	kb := &domain.Keyboard{}
	kb.AddRow(domain.Button{Text: r.catalog.T(lang, i18n.KeyBtnLanguage), Action: domain.ActionPrefsLangMenu})
	kb.AddRow(domain.Button{Text: r.catalog.T(lang, i18n.KeyBtnSchedule), Action: domain.ActionPrefsSchedule})
	kb.AddRow(domain.Button{Text: r.catalog.T(lang, i18n.KeyBtnBackProfile), Action: domain.ActionPrefsBackProfile})

	return View{
		Text:     r.catalog.T(lang, i18n.KeyPrefsView, name, schedule),
		Keyboard: kb,
	}
}

// LanguageMenu renders the language picker
func (r *Renderer) LanguageMenu(lang domain.Language) View {
	kb := &domain.Keyboard{}
	for _, l := range domain.SupportedLanguages {
		kb.AddRow(domain.Button{
			Text:   r.catalog.LanguageName(l, l),
			Action: domain.ActionPrefsSetLang,
			Data:   string(l),
		})
	}
	kb.AddRow(domain.Button{Text: r.catalog.T(lang, i18n.KeyBtnBackPreferences), Action: domain.ActionPrefsMenu})

	return View{
		Text:     r.catalog.T(lang, i18n.KeyLangPrompt),
		Keyboard: kb,
	}
}

// Profile renders the profile screen, the parent of the preferences view
func (r *Renderer) Profile(user *domain.User, hint string) View {
	lang := r.Language(user, hint)
	name, schedule := r.summary(user, lang)

	kb := &domain.Keyboard{}
	kb.AddRow(domain.Button{Text: r.catalog.T(lang, i18n.KeyBtnPreferences), Action: domain.ActionPrefsMenu})

	return View{
		Text:     r.catalog.T(lang, i18n.KeyProfileView, name, schedule),
		Keyboard: kb,
	}
}

// Text renders a plain localized message without keyboard
func (r *Renderer) Text(lang domain.Language, key string, args ...any) View {
	return View{Text: r.catalog.T(lang, key, args...)}
}

func (r *Renderer) summary(user *domain.User, lang domain.Language) (string, string) {
	name := r.catalog.LanguageName(lang, lang)
	schedule, ok := user.ScheduleTime()
	if !ok || schedule == "" {
		schedule = r.catalog.T(lang, i18n.KeyNotSet)
	}
	return name, schedule
}
