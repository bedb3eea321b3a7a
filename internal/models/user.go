package models

import (
	"strings"
	"time"
)

// User is a registered account or a guest. Guests have no phone number,
// which is what lets many of them coexist under the unique phone index.
type User struct {
	ID          int64      `json:"id"`
	PhoneNumber *string    `json:"phone_number"`
	Email       *string    `json:"email"`
	Name        string     `json:"name"`
	IsGuest     bool       `json:"is_guest"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

func (u *User) GetID() int64 { return u.ID }
func (u *User) SetID(id int64) { u.ID = id }
func (u *User) GetCreatedAt() time.Time { return u.CreatedAt }
func (u *User) SetCreatedAt(t time.Time) { u.CreatedAt = t }

func (u *User) Validate() error {
	if err := requireText("name", u.Name); err != nil {
		return err
	}
	if u.IsGuest && u.PhoneNumber != nil {
		return invalid("guest users have no phone number")
	}
	if !u.IsGuest && (u.PhoneNumber == nil || *u.PhoneNumber == "") {
		return invalid("phone_number is required")
	}
	if u.Email != nil && !strings.Contains(*u.Email, "@") {
		return invalid("email %q is malformed", *u.Email)
	}
	return nil
}
