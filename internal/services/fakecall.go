package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
)

type FakeCallService struct {
	e         *store.Engine
	templates *store.Collection[models.FakeCallTemplate, *models.FakeCallTemplate]
}

func NewFakeCallService(e *store.Engine) *FakeCallService {
	return &FakeCallService{e: e, templates: store.NewCollection[models.FakeCallTemplate](e, store.FakeCallTemplates)}
}

// Add stores a template. A template added as default takes the flag over
// from the previous default.
func (s *FakeCallService) Add(ctx context.Context, t *models.FakeCallTemplate) (*models.FakeCallTemplate, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	err := s.e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		if err := requireUser(ctx, tx, t.UserID); err != nil {
			return err
		}
		if t.IsDefault {
			if err := s.clearDefault(ctx, tx, t.UserID, 0); err != nil {
				return err
			}
		}
		_, err := s.templates.With(tx).Insert(ctx, t)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add fake call: %w", err)
	}
	return t, nil
}

func (s *FakeCallService) List(ctx context.Context, userID int64) ([]*models.FakeCallTemplate, error) {
	list, err := s.templates.ByIndex(ctx, store.UserIDField, userID)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b *models.FakeCallTemplate) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

// Default returns the user's default template or ErrNotFound.
func (s *FakeCallService) Default(ctx context.Context, userID int64) (*models.FakeCallTemplate, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		if t.IsDefault {
			return t, nil
		}
	}
	return nil, fmt.Errorf("default fake call for user %d: %w", userID, common.ErrNotFound)
}

// SetDefault makes template id the user's only default.
func (s *FakeCallService) SetDefault(ctx context.Context, id int64) (*models.FakeCallTemplate, error) {
	var t *models.FakeCallTemplate
	err := s.e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		var err error
		t, err = s.templates.With(tx).Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.clearDefault(ctx, tx, t.UserID, id); err != nil {
			return err
		}
		t.IsDefault = true
		return s.templates.With(tx).Replace(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *FakeCallService) clearDefault(ctx context.Context, tx *store.Engine, userID, keep int64) error {
	list, err := s.templates.With(tx).ByIndex(ctx, store.UserIDField, userID)
	if err != nil {
		return err
	}
	for _, t := range list {
		if t.ID == keep || !t.IsDefault {
			continue
		}
		t.IsDefault = false
		if err := s.templates.With(tx).Replace(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
