package models

import "time"

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// RiskDetection is an append-only log entry.
type RiskDetection struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	LocationLat *float64  `json:"location_lat,omitempty"`
	LocationLng *float64  `json:"location_lng,omitempty"`
	RiskLevel   RiskLevel `json:"risk_level"`
	RiskFactors []string  `json:"risk_factors"`
	DetectedAt  time.Time `json:"detected_at"`
}

func (r *RiskDetection) GetID() int64 { return r.ID }
func (r *RiskDetection) SetID(id int64) { r.ID = id }
func (r *RiskDetection) GetCreatedAt() time.Time { return r.DetectedAt }
func (r *RiskDetection) SetCreatedAt(t time.Time) { r.DetectedAt = t }

func (r *RiskDetection) Validate() error {
	if err := requireUser(r.UserID); err != nil {
		return err
	}
	if !r.RiskLevel.Valid() {
		return invalid("unknown risk_level %q", r.RiskLevel)
	}
	return optionalPoint(r.LocationLat, r.LocationLng)
}
