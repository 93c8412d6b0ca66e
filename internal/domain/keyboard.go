package domain

// Action identifiers carried by inline buttons
const (
	ActionPrefsMenu        = "prefs_menu"
	ActionPrefsLangMenu    = "prefs_lang_menu"
	ActionPrefsSetLang     = "prefs_set_lang"
	ActionPrefsSchedule    = "prefs_schedule_time"
	ActionPrefsBackProfile = "prefs_back_profile"
)

// Button is a single inline button
type Button struct {
	Text   string
	Action string
	Data   string
}

// Keyboard is a transport-independent inline keyboard
type Keyboard struct {
	Rows [][]Button
}

// AddRow appends a row of buttons
func (k *Keyboard) AddRow(buttons ...Button) {
	k.Rows = append(k.Rows, buttons)
}
