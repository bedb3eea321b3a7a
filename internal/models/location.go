package models

import (
	"time"

	"github.com/dmitrijs2005/guardian/internal/geo"
)

// LocationHistory is one recorded position.
type LocationHistory struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	Timestamp  time.Time `json:"timestamp"`
	IsSafeZone bool      `json:"is_safe_zone"`
}

func (l *LocationHistory) GetID() int64 { return l.ID }
func (l *LocationHistory) SetID(id int64) { l.ID = id }
func (l *LocationHistory) GetCreatedAt() time.Time { return l.Timestamp }
func (l *LocationHistory) SetCreatedAt(t time.Time) { l.Timestamp = t }

func (l *LocationHistory) Point() geo.Point { return geo.Point{Lat: l.Latitude, Lng: l.Longitude} }

func (l *LocationHistory) Validate() error {
	if err := requireUser(l.UserID); err != nil {
		return err
	}
	if l.Accuracy < 0 {
		return invalid("accuracy must not be negative")
	}
	return l.Point().Validate()
}
