package models

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// UserPreferences holds per-user settings. There is at most one record per
// user.
type UserPreferences struct {
	ID                  int64  `json:"id"`
	UserID              int64  `json:"user_id"`
	Theme               Theme  `json:"theme"`
	Language            string `json:"language"`
	FakeCallContactName string `json:"fake_call_contact_name"`
	FakeCallLanguage    string `json:"fake_call_language"`
	InvisibleGestures   bool   `json:"invisible_gestures"`
	AutoRecordSOS       bool   `json:"auto_record_sos"`
	ShareLocationAuto   bool   `json:"share_location_auto"`
}

func (p *UserPreferences) GetID() int64 { return p.ID }
func (p *UserPreferences) SetID(id int64) { p.ID = id }

// DefaultPreferences are what a user gets on first access.
func DefaultPreferences(userID int64) *UserPreferences {
	return &UserPreferences{
		UserID:              userID,
		Theme:               ThemeLight,
		Language:            "en",
		FakeCallContactName: "Mom",
		FakeCallLanguage:    "en",
		AutoRecordSOS:       true,
		ShareLocationAuto:   true,
	}
}

func (p *UserPreferences) Validate() error {
	if err := requireUser(p.UserID); err != nil {
		return err
	}
	if !p.Theme.Valid() {
		return invalid("unknown theme %q", p.Theme)
	}
	if err := requireText("language", p.Language); err != nil {
		return err
	}
	return requireText("fake_call_language", p.FakeCallLanguage)
}
