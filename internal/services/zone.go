package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/guardian/internal/geo"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
)

type ZoneService struct {
	e     *store.Engine
	zones *store.Collection[models.SafeZone, *models.SafeZone]
}

func NewZoneService(e *store.Engine) *ZoneService {
	return &ZoneService{e: e, zones: store.NewCollection[models.SafeZone](e, store.SafeZones)}
}

func (s *ZoneService) Add(ctx context.Context, z *models.SafeZone) (*models.SafeZone, error) {
	if _, err := insertOwned(ctx, s.e, store.SafeZones, z.UserID, z); err != nil {
		return nil, fmt.Errorf("add zone: %w", err)
	}
	return z, nil
}

func (s *ZoneService) Update(ctx context.Context, z *models.SafeZone) error {
	return s.e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		cur, err := s.zones.With(tx).Get(ctx, z.ID)
		if err != nil {
			return err
		}
		z.UserID = cur.UserID
		z.CreatedAt = cur.CreatedAt
		return s.zones.With(tx).Replace(ctx, z)
	})
}

func (s *ZoneService) Remove(ctx context.Context, id int64) error {
	return s.zones.Delete(ctx, id)
}

// List returns the user's zones in creation order.
func (s *ZoneService) List(ctx context.Context, userID int64) ([]*models.SafeZone, error) {
	list, err := s.zones.ByIndex(ctx, store.UserIDField, userID)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b *models.SafeZone) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

// Contains returns the first active zone of the user that contains p.
func (s *ZoneService) Contains(ctx context.Context, userID int64, p geo.Point) (*models.SafeZone, bool, error) {
	if err := p.Validate(); err != nil {
		return nil, false, err
	}
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	for _, z := range list {
		if z.Contains(p) {
			return z, true, nil
		}
	}
	return nil, false, nil
}
