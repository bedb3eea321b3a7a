package models

import (
	"time"

	"github.com/dmitrijs2005/guardian/internal/geo"
)

// SafeZone is a circular geofence. Points inside an active zone are not
// considered risky.
type SafeZone struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters float64   `json:"radius_meters"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (z *SafeZone) GetID() int64 { return z.ID }
func (z *SafeZone) SetID(id int64) { z.ID = id }
func (z *SafeZone) GetCreatedAt() time.Time { return z.CreatedAt }
func (z *SafeZone) SetCreatedAt(t time.Time) { z.CreatedAt = t }

func (z *SafeZone) Center() geo.Point { return geo.Point{Lat: z.Latitude, Lng: z.Longitude} }

// Contains reports whether p lies within the zone radius. Inactive zones
// contain nothing.
func (z *SafeZone) Contains(p geo.Point) bool {
	return z.IsActive && geo.Within(z.Center(), p, z.RadiusMeters)
}

func (z *SafeZone) Validate() error {
	if err := requireUser(z.UserID); err != nil {
		return err
	}
	if err := requireText("name", z.Name); err != nil {
		return err
	}
	if z.RadiusMeters <= 0 {
		return invalid("radius_meters must be positive")
	}
	return z.Center().Validate()
}
