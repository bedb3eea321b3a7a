// Package models defines the record types persisted by the store, their
// enums, and the invariants each record checks before it is written.
package models

import (
	"fmt"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/geo"
)

// ErrPayloadTooLarge is returned for evidence above common.MaxEvidenceSize.
var ErrPayloadTooLarge = fmt.Errorf("payload too large: %w", common.ErrInvalidArgument)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func requireUser(userID int64) error {
	if userID <= 0 {
		return invalid("user_id is required")
	}
	return nil
}

func requireText(field, v string) error {
	if v == "" {
		return invalid("%s is required", field)
	}
	return nil
}

// optionalPoint validates a lat/lng pair where both halves are either set
// or nil.
func optionalPoint(lat, lng *float64) error {
	switch {
	case lat == nil && lng == nil:
		return nil
	case lat == nil || lng == nil:
		return invalid("latitude and longitude must be set together")
	}
	return geo.Point{Lat: *lat, Lng: *lng}.Validate()
}
