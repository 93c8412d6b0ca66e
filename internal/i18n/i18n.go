// Package i18n holds the localized bot texts and resolves a user's language.
package i18n

import (
	"vacancybot/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys
const (
	KeyPrefsView          = "profile.preferences_view"
	KeyNotSet             = "profile.not_set"
	KeyNoProfile          = "profile.no_profile"
	KeyProfileView        = "profile.view"
	KeyLangPrompt         = "profile.preferences_lang_prompt"
	KeyLangInvalid        = "profile.preferences_lang_invalid"
	KeyLangSaved          = "profile.preferences_lang_saved"
	KeySchedulePrompt     = "profile.preferences_schedule_prompt"
	KeyScheduleInvalid    = "profile.preferences_schedule_invalid"
	KeyScheduleSaved      = "profile.preferences_schedule_saved"
	KeyScheduleCleared    = "profile.preferences_schedule_cleared"
	KeyBtnLanguage        = "profile.buttons.language"
	KeyBtnSchedule        = "profile.buttons.schedule_time"
	KeyBtnBackProfile     = "profile.buttons.back_profile"
	KeyBtnBackPreferences = "profile.buttons.back_preferences"
	KeyBtnPreferences     = "profile.buttons.preferences"
	KeyGenericError       = "common.error"
	languageNameKeyPrefix = "profile.languages."
)

var messages = map[domain.Language]map[string]string{
	domain.LangEnglish: {
		KeyPrefsView:          "⚙️ <b>Preferences</b>\n\n🌐 Language: %[1]s\n⏰ Vacancy digest time: %[2]s",
		KeyNotSet:             "not set",
		KeyNoProfile:          "You don't have a profile yet. Send /start to create one.",
		KeyProfileView:        "👤 <b>Profile</b>\n\n🌐 Language: %[1]s\n⏰ Vacancy digest time: %[2]s",
		KeyLangPrompt:         "Choose the interface language:",
		KeyLangInvalid:        "This language is not supported.",
		KeyLangSaved:          "✅ Language changed to %[1]s.",
		KeySchedulePrompt:     "Send the time for the daily vacancy digest in HH:MM format (for example 09:30), or \"clear\" to remove it.",
		KeyScheduleInvalid:    "Time must be in HH:MM format, for example 09:30. Try again or send \"clear\".",
		KeyScheduleSaved:      "✅ Vacancy digest time set to %[1]s.",
		KeyScheduleCleared:    "✅ Vacancy digest time removed.",
		KeyBtnLanguage:        "🌐 Language",
		KeyBtnSchedule:        "⏰ Digest time",
		KeyBtnBackProfile:     "◀️ Back to profile",
		KeyBtnBackPreferences: "◀️ Back",
		KeyBtnPreferences:     "⚙️ Preferences",
		KeyGenericError:       "Something went wrong. Please try again later.",
		"profile.languages.en": "English",
		"profile.languages.ru": "Русский",
	},
	domain.LangRussian: {
		KeyPrefsView:          "⚙️ <b>Настройки</b>\n\n🌐 Язык: %[1]s\n⏰ Время подборки вакансий: %[2]s",
		KeyNotSet:             "не задано",
		KeyNoProfile:          "У тебя ещё нет профиля. Отправь /start, чтобы создать его.",
		KeyProfileView:        "👤 <b>Профиль</b>\n\n🌐 Язык: %[1]s\n⏰ Время подборки вакансий: %[2]s",
		KeyLangPrompt:         "Выбери язык интерфейса:",
		KeyLangInvalid:        "Этот язык не поддерживается.",
		KeyLangSaved:          "✅ Язык изменён на %[1]s.",
		KeySchedulePrompt:     "Отправь время ежедневной подборки вакансий в формате ЧЧ:ММ (например 09:30) или «сбросить», чтобы удалить его.",
		KeyScheduleInvalid:    "Время должно быть в формате ЧЧ:ММ, например 09:30. Попробуй ещё раз или отправь «сбросить».",
		KeyScheduleSaved:      "✅ Время подборки установлено: %[1]s.",
		KeyScheduleCleared:    "✅ Время подборки удалено.",
		KeyBtnLanguage:        "🌐 Язык",
		KeyBtnSchedule:        "⏰ Время подборки",
		KeyBtnBackProfile:     "◀️ В профиль",
		KeyBtnBackPreferences: "◀️ Назад",
		KeyBtnPreferences:     "⚙️ Настройки",
		KeyGenericError:       "Произошла ошибка. Попробуйте позже.",
		"profile.languages.en": "English",
		"profile.languages.ru": "Русский",
	},
}

// Catalog looks up localized texts
type Catalog struct {
	def     domain.Language
	matcher language.Matcher
	texts   *catalog.Builder
}

// NewCatalog creates a catalog falling back to def for unknown languages and keys
func NewCatalog(def domain.Language) *Catalog {
	if _, ok := domain.ParseLanguage(string(def)); !ok {
		def = domain.DefaultLanguage
	}

	tags := make([]language.Tag, 0, len(domain.SupportedLanguages))
	for _, l := range domain.SupportedLanguages {
		tags = append(tags, language.Make(string(l)))
	}

	texts := catalog.NewBuilder(catalog.Fallback(language.Make(string(def))))
	for lang, msgs := range messages {
		tag := language.Make(string(lang))
		for key, msg := range msgs {
			// Only malformed ${...} macros fail to compile; the texts use none.
			_ = texts.SetString(tag, key, msg)
		}
	}

	return &Catalog{
		def:     def,
		matcher: language.NewMatcher(tags),
		texts:   texts,
	}
}

// Default returns the fallback language
func (c *Catalog) Default() domain.Language {
	return c.def
}

// T returns the text for key in lang with positional arguments substituted
func (c *Catalog) T(lang domain.Language, key string, args ...any) string {
	if _, ok := messages[lang][key]; !ok {
		lang = c.def
	}
	if _, ok := messages[lang][key]; !ok {
		return key
	}

	p := message.NewPrinter(language.Make(string(lang)), message.Catalog(c.texts))
	return p.Sprintf(key, args...)
}

// LanguageName returns the human-readable name of target, written in lang
func (c *Catalog) LanguageName(lang, target domain.Language) string {
	return c.T(lang, languageNameKeyPrefix+string(target))
}

// Detect resolves the interface language. A supported stored code wins,
// then the client locale hint (e.g. "ru-RU"), then the default language.
func (c *Catalog) Detect(code, hint string) domain.Language {
	if l, ok := domain.ParseLanguage(code); ok {
		return l
	}
	if hint == "" {
		return c.def
	}

	tag, err := language.Parse(hint)
	if err != nil {
		return c.def
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(domain.SupportedLanguages) {
		return c.def
	}
	return domain.SupportedLanguages[idx]
}
