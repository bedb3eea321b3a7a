package models

import "time"

type AlertStatus string

const (
	AlertActive    AlertStatus = "active"
	AlertCancelled AlertStatus = "cancelled"
	AlertResolved  AlertStatus = "resolved"
)

func (s AlertStatus) Valid() bool {
	switch s {
	case AlertActive, AlertCancelled, AlertResolved:
		return true
	}
	return false
}

// CanTransition reports whether an alert may move from s to next. Only an
// active alert can change, and only to a terminal state.
func (s AlertStatus) CanTransition(next AlertStatus) bool {
	return s == AlertActive && (next == AlertCancelled || next == AlertResolved)
}

// SOSAlert is an emergency raised by the user. TriggeredAt doubles as the
// record creation time.
type SOSAlert struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	TriggeredAt time.Time   `json:"triggered_at"`
	LocationLat *float64    `json:"location_lat,omitempty"`
	LocationLng *float64    `json:"location_lng,omitempty"`
	Status      AlertStatus `json:"status"`
	ResolvedAt  *time.Time  `json:"resolved_at,omitempty"`
	Notes       string      `json:"notes,omitempty"`
}

func (a *SOSAlert) GetID() int64 { return a.ID }
func (a *SOSAlert) SetID(id int64) { a.ID = id }
func (a *SOSAlert) GetCreatedAt() time.Time { return a.TriggeredAt }
func (a *SOSAlert) SetCreatedAt(t time.Time) { a.TriggeredAt = t }

func (a *SOSAlert) Validate() error {
	if err := requireUser(a.UserID); err != nil {
		return err
	}
	if !a.Status.Valid() {
		return invalid("unknown alert status %q", a.Status)
	}
	if a.Status == AlertActive && a.ResolvedAt != nil {
		return invalid("active alert cannot have resolved_at")
	}
	return optionalPoint(a.LocationLat, a.LocationLng)
}
