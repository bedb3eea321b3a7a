package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/guardian/internal/logging"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
)

// Services is the set of domain services sharing one engine.
type Services struct {
	Users       *UserService
	Contacts    *ContactService
	Evidence    *EvidenceService
	Alerts      *AlertService
	Zones       *ZoneService
	Preferences *PreferencesService
	Locations   *LocationService
	Responders  *ResponderService
	FakeCalls   *FakeCallService
	Risks       *RiskService
}

type Options struct {
	Sink              EventSink
	Uploader          Uploader
	ResponderCacheTTL time.Duration
	Logger            logging.Logger
}

// New builds every service in dependency order.
func New(e *store.Engine, opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	em := emitter{sink: opts.Sink, log: opts.Logger}

	zones := NewZoneService(e)
	prefs := NewPreferencesService(e)

	return &Services{
		Users:       NewUserService(e, em, opts.Logger),
		Contacts:    NewContactService(e),
		Evidence:    NewEvidenceService(e, opts.Uploader, em),
		Alerts:      NewAlertService(e, em, opts.Logger),
		Zones:       zones,
		Preferences: prefs,
		Locations:   NewLocationService(e, zones, prefs, em),
		Responders:  NewResponderService(e, opts.ResponderCacheTTL),
		FakeCalls:   NewFakeCallService(e),
		Risks:       NewRiskService(e),
	}
}

func users(e *store.Engine) *store.Collection[models.User, *models.User] {
	return store.NewCollection[models.User](e, store.Users)
}

// insertOwned inserts rec on behalf of userID, failing with ErrNotFound
// when the user does not exist. Both happen in one transaction.
func insertOwned(ctx context.Context, e *store.Engine, collection string, userID int64, rec store.Record) (int64, error) {
	if v, ok := rec.(store.Validator); ok {
		if err := v.Validate(); err != nil {
			return 0, err
		}
	}
	var id int64
	err := e.Tx(ctx, func(ctx context.Context, tx *store.Engine) error {
		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		var err error
		id, err = tx.Insert(ctx, collection, rec)
		return err
	})
	return id, err
}

func requireUser(ctx context.Context, e *store.Engine, userID int64) error {
	var u models.User
	return e.GetByID(ctx, store.Users, userID, &u)
}

func now() time.Time { return time.Now().UTC() }
