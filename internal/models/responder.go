package models

import "github.com/dmitrijs2005/guardian/internal/geo"

type ResponderType string

const (
	ResponderPolice      ResponderType = "police"
	ResponderSheTeam     ResponderType = "she_team"
	ResponderVolunteer   ResponderType = "volunteer"
	ResponderTransgender ResponderType = "transgender"
)

func (t ResponderType) Valid() bool {
	switch t {
	case ResponderPolice, ResponderSheTeam, ResponderVolunteer, ResponderTransgender:
		return true
	}
	return false
}

// Rating bounds.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// CommunityResponder is a directory entry not owned by any user.
type CommunityResponder struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Type          ResponderType `json:"type"`
	PhoneNumber   string        `json:"phone_number"`
	Latitude      *float64      `json:"latitude,omitempty"`
	Longitude     *float64      `json:"longitude,omitempty"`
	IsVerified    bool          `json:"is_verified"`
	IsAvailable   bool          `json:"is_available"`
	Rating        float64       `json:"rating"`
	ResponseCount int64         `json:"response_count"`
}

func (r *CommunityResponder) GetID() int64 { return r.ID }
func (r *CommunityResponder) SetID(id int64) { r.ID = id }

// Location returns the responder position, or false when unknown.
func (r *CommunityResponder) Location() (geo.Point, bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *r.Latitude, Lng: *r.Longitude}, true
}

// Rate folds one rating into the running average.
func (r *CommunityResponder) Rate(rating float64) {
	n := float64(r.ResponseCount)
	r.Rating = (r.Rating*n + rating) / (n + 1)
	r.ResponseCount++
}

func (r *CommunityResponder) Validate() error {
	if err := requireText("name", r.Name); err != nil {
		return err
	}
	if !r.Type.Valid() {
		return invalid("unknown responder type %q", r.Type)
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return invalid("rating %v outside [%v, %v]", r.Rating, MinRating, MaxRating)
	}
	if r.ResponseCount < 0 {
		return invalid("response_count must not be negative")
	}
	return optionalPoint(r.Latitude, r.Longitude)
}
