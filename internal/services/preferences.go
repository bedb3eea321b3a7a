package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
)

type PreferencesService struct {
	e     *store.Engine
	prefs *store.Collection[models.UserPreferences, *models.UserPreferences]
}

func NewPreferencesService(e *store.Engine) *PreferencesService {
	return &PreferencesService{e: e, prefs: store.NewCollection[models.UserPreferences](e, store.UserPreferences)}
}

// Get returns the user's preferences, creating the defaults on first
// access.
func (s *PreferencesService) Get(ctx context.Context, userID int64) (*models.UserPreferences, error) {
	p, err := s.find(ctx, s.e, userID)
	if err != nil || p != nil {
		return p, err
	}

	p = models.DefaultPreferences(userID)
	_, err = insertOwned(ctx, s.e, store.UserPreferences, userID, p)
	if errors.Is(err, common.ErrConstraintViolation) {
		// created concurrently, the unique index kept it to one
		return s.find(ctx, s.e, userID)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Save stores p as the user's only preferences record.
func (s *PreferencesService) Save(ctx context.Context, p *models.UserPreferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		if err := requireUser(ctx, tx, p.UserID); err != nil {
			return err
		}
		cur, err := s.find(ctx, tx, p.UserID)
		if err != nil {
			return err
		}
		if cur == nil {
			_, err = s.prefs.With(tx).Insert(ctx, p)
			return err
		}
		p.ID = cur.ID
		return s.prefs.With(tx).Replace(ctx, p)
	})
}

func (s *PreferencesService) find(ctx context.Context, e *store.Engine, userID int64) (*models.UserPreferences, error) {
	list, err := s.prefs.With(e).ByIndex(ctx, store.UserIDField, userID)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}
