package services

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/dmitrijs2005/guardian/internal/geo"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
	"github.com/patrickmn/go-cache"
)

const (
	defaultResponderTTL = time.Minute
	directoryKey        = "directory"
)

// ResponderFilter narrows List. Zero value lists everyone.
type ResponderFilter struct {
	Type          *models.ResponderType
	VerifiedOnly  bool
	AvailableOnly bool
}

// NearbyResponder is a directory entry with its distance from the query
// origin.
type NearbyResponder struct {
	models.CommunityResponder
	DistanceKm float64 `json:"distance_km"`
}

// ResponderService manages the community responder directory. Reads are
// served from a cache that every write flushes.
type ResponderService struct {
	e          *store.Engine
	responders *store.Collection[models.CommunityResponder, *models.CommunityResponder]
	cache      *cache.Cache
}

func NewResponderService(e *store.Engine, ttl time.Duration) *ResponderService {
	if ttl <= 0 {
		ttl = defaultResponderTTL
	}
	return &ResponderService{
		e:          e,
		responders: store.NewCollection[models.CommunityResponder](e, store.CommunityResponders),
		cache:      cache.New(ttl, 2*ttl),
	}
}

func (s *ResponderService) Add(ctx context.Context, r *models.CommunityResponder) (*models.CommunityResponder, error) {
	if _, err := s.responders.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("add responder: %w", err)
	}
	s.cache.Flush()
	return r, nil
}

func (s *ResponderService) Get(ctx context.Context, id int64) (*models.CommunityResponder, error) {
	return s.responders.Get(ctx, id)
}

// List returns directory entries matching f in id order.
func (s *ResponderService) List(ctx context.Context, f ResponderFilter) ([]*models.CommunityResponder, error) {
	dir, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.CommunityResponder, 0, len(dir))
	for i := range dir {
		r := dir[i]
		if f.Type != nil && r.Type != *f.Type {
			continue
		}
		if f.VerifiedOnly && !r.IsVerified {
			continue
		}
		if f.AvailableOnly && !r.IsAvailable {
			continue
		}
		out = append(out, &r)
	}
	return out, nil
}

// Nearby returns responders with known coordinates within radiusKm of
// (lat, lng), closest first.
func (s *ResponderService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyResponder, error) {
	origin := geo.Point{Lat: lat, Lng: lng}
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if radiusKm < 0 || math.IsNaN(radiusKm) {
		return nil, fmt.Errorf("radius %v km: %w", radiusKm, geo.ErrInvalidCoordinates)
	}

	dir, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}

	var out []NearbyResponder
	for _, r := range dir {
		p, ok := r.Location()
		if !ok {
			continue
		}
		if d := geo.DistanceKm(origin, p); d <= radiusKm {
			out = append(out, NearbyResponder{CommunityResponder: r, DistanceKm: d})
		}
	}
	slices.SortStableFunc(out, func(a, b NearbyResponder) int { return cmp.Compare(a.DistanceKm, b.DistanceKm) })
	return out, nil
}

// Rate folds rating into the responder's running average and bumps its
// response count.
func (s *ResponderService) Rate(ctx context.Context, id int64, rating float64) (*models.CommunityResponder, error) {
	if !(rating >= models.MinRating && rating <= models.MaxRating) {
		return nil, fmt.Errorf("%v: %w", rating, ErrInvalidRating)
	}

	var r *models.CommunityResponder
	err := s.e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		var err error
		r, err = s.responders.With(tx).Get(ctx, id)
		if err != nil {
			return err
		}
		r.Rate(rating)
		return s.responders.With(tx).Replace(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Flush()
	return r, nil
}

// directory returns a snapshot of all responders. Callers get copies, so
// the cached slice is never mutated.
func (s *ResponderService) directory(ctx context.Context) ([]models.CommunityResponder, error) {
	if v, ok := s.cache.Get(directoryKey); ok {
		return v.([]models.CommunityResponder), nil
	}
	list, err := s.responders.All(ctx)
	if err != nil {
		return nil, err
	}
	dir := make([]models.CommunityResponder, len(list))
	for i, r := range list {
		dir[i] = *r
	}
	s.cache.SetDefault(directoryKey, dir)
	return dir, nil
}
