package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/geo"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
)

type LocationService struct {
	e         *store.Engine
	locations *store.Collection[models.LocationHistory, *models.LocationHistory]
	zones     *ZoneService
	prefs     *PreferencesService
	em        emitter
}

func NewLocationService(e *store.Engine, zones *ZoneService, prefs *PreferencesService, em emitter) *LocationService {
	return &LocationService{
		e:         e,
		locations: store.NewCollection[models.LocationHistory](e, store.LocationHistory),
		zones:     zones,
		prefs:     prefs,
		em:        em,
	}
}

// Record appends a position to the user's history, flagging it when it
// falls inside one of the user's safe zones. The position is shared with
// the backend if the user allows it.
func (s *LocationService) Record(ctx context.Context, userID int64, lat, lng, accuracy float64) (*models.LocationHistory, error) {
	p := geo.Point{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	_, inside, err := s.zones.Contains(ctx, userID, p)
	if err != nil {
		return nil, err
	}

	l := &models.LocationHistory{
		UserID:     userID,
		Latitude:   lat,
		Longitude:  lng,
		Accuracy:   accuracy,
		IsSafeZone: inside,
	}
	if _, err := insertOwned(ctx, s.e, store.LocationHistory, userID, l); err != nil {
		return nil, fmt.Errorf("record location: %w", err)
	}

	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		s.em.log.Warn(ctx, "location not shared", "user_id", userID, "error", err)
		return l, nil
	}
	if prefs.ShareLocationAuto {
		s.em.emit(ctx, client.EventLocation, "record", l)
	}
	return l, nil
}

// History returns up to limit most recent positions; limit <= 0 means all.
func (s *LocationService) History(ctx context.Context, userID int64, limit int) ([]*models.LocationHistory, error) {
	list, err := s.locations.ByIndex(ctx, store.UserIDField, userID)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b *models.LocationHistory) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
