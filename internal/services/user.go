package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/logging"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
)

const defaultGuestName = "Guest"

// Stats are per-user record counts taken from one snapshot.
type Stats struct {
	Evidence  int64 `json:"evidence"`
	Alerts    int64 `json:"alerts"`
	Contacts  int64 `json:"contacts"`
	Locations int64 `json:"locations"`
}

type UserService struct {
	e     *store.Engine
	users *store.Collection[models.User, *models.User]
	em    emitter
	log   logging.Logger
}

func NewUserService(e *store.Engine, em emitter, log logging.Logger) *UserService {
	return &UserService{e: e, users: users(e), em: em, log: log}
}

// Register creates a user with a phone number. A phone already in use
// fails with ErrConstraintViolation.
func (s *UserService) Register(ctx context.Context, phone, name string, email *string) (*models.User, error) {
	u := &models.User{PhoneNumber: &phone, Name: name, Email: email}
	if _, err := s.users.Insert(ctx, u); err != nil {
		return nil, fmt.Errorf("register %s: %w", phone, err)
	}
	s.log.Info(ctx, "user registered", "user_id", u.ID)
	s.em.emit(ctx, client.EventUserSync, "register", u)
	return u, nil
}

// CreateGuest creates a phone-less user.
func (s *UserService) CreateGuest(ctx context.Context, name string) (*models.User, error) {
	if name == "" {
		name = defaultGuestName
	}
	u := &models.User{Name: name, IsGuest: true}
	if _, err := s.users.Insert(ctx, u); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	s.em.emit(ctx, client.EventUserSync, "guest", u)
	return u, nil
}

// Login looks a user up by phone and records the login time. There is no
// second factor.
func (s *UserService) Login(ctx context.Context, phone string) (*models.User, error) {
	var u *models.User
	err := s.e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		found, err := s.users.With(tx).ByIndex(ctx, "phone_number", phone)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return fmt.Errorf("user with phone %s: %w", phone, common.ErrNotFound)
		}
		u = found[0]
		t := now()
		u.LastLogin = &t
		return s.users.With(tx).Replace(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	s.em.emit(ctx, client.EventUserSync, "login", u)
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.users.Get(ctx, id)
}

// Delete removes the user together with every record scoped to it. It all
// happens in one transaction; the returned map counts removals per
// collection.
func (s *UserService) Delete(ctx context.Context, id int64) (map[string]int64, error) {
	removed := make(map[string]int64)
	err := s.e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		if err := requireUser(ctx, tx, id); err != nil {
			return err
		}
		for _, coll := range tx.Registry().WithField(store.UserIDField) {
			n, err := tx.DeleteByIndex(ctx, coll, store.UserIDField, id)
			if err != nil {
				return fmt.Errorf("cascade %s: %w", coll, err)
			}
			removed[coll] = n
		}
		removed[store.Users] = 1
		return tx.Delete(ctx, store.Users, id)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user deleted", "user_id", id)
	s.em.emit(ctx, client.EventUserSync, "delete", map[string]int64{"user_id": id})
	return removed, nil
}

// Stats counts the user's evidence, alerts, contacts and locations within
// one read transaction.
func (s *UserService) Stats(ctx context.Context, userID int64) (Stats, error) {
	var st Stats
	err := s.e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		for _, c := range []struct {
			coll string
			dst  *int64
		}{
			{store.Evidence, &st.Evidence},
			{store.SOSAlerts, &st.Alerts},
			{store.EmergencyContacts, &st.Contacts},
			{store.LocationHistory, &st.Locations},
		} {
			n, err := tx.CountByIndex(ctx, c.coll, store.UserIDField, userID)
			if err != nil {
				return err
			}
			*c.dst = n
		}
		return nil
	})
	return st, err
}
