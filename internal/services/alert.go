package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/geo"
	"github.com/dmitrijs2005/guardian/internal/logging"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
)

type AlertService struct {
	e      *store.Engine
	alerts *store.Collection[models.SOSAlert, *models.SOSAlert]
	em     emitter
	log    logging.Logger
}

func NewAlertService(e *store.Engine, em emitter, log logging.Logger) *AlertService {
	return &AlertService{e: e, alerts: store.NewCollection[models.SOSAlert](e, store.SOSAlerts), em: em, log: log}
}

// Trigger raises a new alert. Only one alert per user may be active; a
// second trigger fails with ErrAlertInFlight.
func (s *AlertService) Trigger(ctx context.Context, userID int64, at *geo.Point, notes string) (*models.SOSAlert, error) {
	a := &models.SOSAlert{UserID: userID, Status: models.AlertActive, Notes: notes}
	if at != nil {
		lat, lng := at.Lat, at.Lng
		a.LocationLat, a.LocationLng = &lat, &lng
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	err := s.e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		active, err := s.active(ctx, tx, userID)
		if err != nil {
			return err
		}
		if active != nil {
			return fmt.Errorf("alert #%d: %w", active.ID, ErrAlertInFlight)
		}
		_, err = s.alerts.With(tx).Insert(ctx, a)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Warn(ctx, "sos alert triggered", "user_id", userID, "alert_id", a.ID)
	s.em.emit(ctx, client.EventSOSAlert, "trigger", a)
	return a, nil
}

func (s *AlertService) Cancel(ctx context.Context, id int64) (*models.SOSAlert, error) {
	return s.transition(ctx, id, models.AlertCancelled, "")
}

func (s *AlertService) Resolve(ctx context.Context, id int64, notes string) (*models.SOSAlert, error) {
	return s.transition(ctx, id, models.AlertResolved, notes)
}

func (s *AlertService) transition(ctx context.Context, id int64, next models.AlertStatus, notes string) (*models.SOSAlert, error) {
	var a *models.SOSAlert
	err := s.e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		var err error
		a, err = s.alerts.With(tx).Get(ctx, id)
		if err != nil {
			return err
		}
		if !a.Status.CanTransition(next) {
			return fmt.Errorf("alert #%d %s -> %s: %w", id, a.Status, next, ErrInvalidTransition)
		}
		t := now()
		a.Status = next
		a.ResolvedAt = &t
		if notes != "" {
			a.Notes = notes
		}
		return s.alerts.With(tx).Replace(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "sos alert closed", "alert_id", id, "status", next)
	s.em.emit(ctx, client.EventSOSAlert, string(next), a)
	return a, nil
}

// Active returns the user's active alert or ErrNotFound.
func (s *AlertService) Active(ctx context.Context, userID int64) (*models.SOSAlert, error) {
	a, err := s.active(ctx, s.e, userID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("active alert for user %d: %w", userID, common.ErrNotFound)
	}
	return a, nil
}

func (s *AlertService) active(ctx context.Context, e *store.Engine, userID int64) (*models.SOSAlert, error) {
	list, err := s.alerts.With(e).ByIndex(ctx, store.UserIDField, userID)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		if a.Status == models.AlertActive {
			return a, nil
		}
	}
	return nil, nil
}

// History lists the user's alerts, most recent first.
func (s *AlertService) History(ctx context.Context, userID int64) ([]*models.SOSAlert, error) {
	list, err := s.alerts.ByIndex(ctx, store.UserIDField, userID)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b *models.SOSAlert) int {
		if c := b.TriggeredAt.Compare(a.TriggeredAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return list, nil
}
