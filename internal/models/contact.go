package models

import "time"

type ContactType string

const (
	ContactFamily           ContactType = "family"
	ContactFriend           ContactType = "friend"
	ContactColleague        ContactType = "colleague"
	ContactEmergencyService ContactType = "emergency_service"
	ContactOther            ContactType = "other"
)

func (t ContactType) Valid() bool {
	switch t {
	case ContactFamily, ContactFriend, ContactColleague, ContactEmergencyService, ContactOther:
		return true
	}
	return false
}

// EmergencyContact is someone notified when the user raises an alert.
// Higher Priority sorts first.
type EmergencyContact struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"user_id"`
	Name         string      `json:"name"`
	PhoneNumber  string      `json:"phone_number"`
	Relationship string      `json:"relationship,omitempty"`
	Priority     int         `json:"priority"`
	ContactType  ContactType `json:"contact_type"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (c *EmergencyContact) GetID() int64 { return c.ID }
func (c *EmergencyContact) SetID(id int64) { c.ID = id }
func (c *EmergencyContact) GetCreatedAt() time.Time { return c.CreatedAt }
func (c *EmergencyContact) SetCreatedAt(t time.Time) { c.CreatedAt = t }

func (c *EmergencyContact) Validate() error {
	if err := requireUser(c.UserID); err != nil {
		return err
	}
	if err := requireText("name", c.Name); err != nil {
		return err
	}
	if err := requireText("phone_number", c.PhoneNumber); err != nil {
		return err
	}
	if !c.ContactType.Valid() {
		return invalid("unknown contact_type %q", c.ContactType)
	}
	if c.Priority < 0 {
		return invalid("priority must not be negative")
	}
	return nil
}
