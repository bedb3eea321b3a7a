package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
)

type ContactService struct {
	e        *store.Engine
	contacts *store.Collection[models.EmergencyContact, *models.EmergencyContact]
}

func NewContactService(e *store.Engine) *ContactService {
	return &ContactService{e: e, contacts: store.NewCollection[models.EmergencyContact](e, store.EmergencyContacts)}
}

func (s *ContactService) Add(ctx context.Context, c *models.EmergencyContact) (*models.EmergencyContact, error) {
	if _, err := insertOwned(ctx, s.e, store.EmergencyContacts, c.UserID, c); err != nil {
		return nil, fmt.Errorf("add contact: %w", err)
	}
	return c, nil
}

// Update overwrites an existing contact. Ownership cannot change.
func (s *ContactService) Update(ctx context.Context, c *models.EmergencyContact) error {
	return s.e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		cur, err := s.contacts.With(tx).Get(ctx, c.ID)
		if err != nil {
			return err
		}
		c.UserID = cur.UserID
		c.CreatedAt = cur.CreatedAt
		return s.contacts.With(tx).Replace(ctx, c)
	})
}

func (s *ContactService) Remove(ctx context.Context, id int64) error {
	return s.contacts.Delete(ctx, id)
}

// ListByPriority returns the user's contacts, highest priority first. Equal
// priorities keep insertion order.
func (s *ContactService) ListByPriority(ctx context.Context, userID int64) ([]*models.EmergencyContact, error) {
	list, err := s.contacts.ByIndex(ctx, store.UserIDField, userID)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b *models.EmergencyContact) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(list, func(a, b *models.EmergencyContact) int { return cmp.Compare(b.Priority, a.Priority) })
	return list, nil
}

// ListActive is ListByPriority without deactivated contacts.
func (s *ContactService) ListActive(ctx context.Context, userID int64) ([]*models.EmergencyContact, error) {
	list, err := s.ListByPriority(ctx, userID)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(list, func(c *models.EmergencyContact) bool { return !c.IsActive }), nil
}
