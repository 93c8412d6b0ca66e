package domain

// Language is a supported interface language code
type Language string

const (
	LangEnglish Language = "en"
	LangRussian Language = "ru"
)

// DefaultLanguage is used when neither the profile nor the client locale resolves
const DefaultLanguage = LangEnglish

// SupportedLanguages lists interface languages in menu order
var SupportedLanguages = []Language{LangEnglish, LangRussian}

// ParseLanguage returns the language for an exact supported code
func ParseLanguage(code string) (Language, bool) {
	for _, l := range SupportedLanguages {
		if string(l) == code {
			return l, true
		}
	}
	return "", false
}
