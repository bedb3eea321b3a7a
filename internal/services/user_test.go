package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/geo"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_DuplicatePhoneRejected(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()

	u, err := svc.Users.Register(ctx, "+15550001", "Asha", ptr("asha@example.com"))
	require.NoError(t, err)
	assert.Positive(t, u.ID)
	assert.False(t, u.IsGuest)

	_, err = svc.Users.Register(ctx, "+15550001", "Other", nil)
	require.ErrorIs(t, err, common.ErrConstraintViolation)
}

func TestRegister_MalformedEmail(t *testing.T) {
	svc, _ := newTestServices(t, Options{})

	_, err := svc.Users.Register(context.Background(), "+15550001", "Asha", ptr("nope"))
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestCreateGuest_ManyWithoutPhone(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()

	a, err := svc.Users.CreateGuest(ctx, "")
	require.NoError(t, err)
	b, err := svc.Users.CreateGuest(ctx, "Night walk")
	require.NoError(t, err)

	assert.Equal(t, "Guest", a.Name)
	assert.Equal(t, "Night walk", b.Name)
	assert.True(t, a.IsGuest)
	assert.Nil(t, a.PhoneNumber)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()

	_, err := svc.Users.Login(ctx, "+15550009")
	require.ErrorIs(t, err, common.ErrNotFound)

	reg, err := svc.Users.Register(ctx, "+15550009", "Asha", nil)
	require.NoError(t, err)
	assert.Nil(t, reg.LastLogin)

	u, err := svc.Users.Login(ctx, "+15550009")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
	require.NotNil(t, u.LastLogin)

	got, err := svc.Users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
}

func TestDelete_CascadesToOwnedRecords(t *testing.T) {
	svc, e := newTestServices(t, Options{})
	ctx := context.Background()

	u := mustGuest(t, svc)
	other := mustGuest(t, svc)

	_, err := svc.Contacts.Add(ctx, &models.EmergencyContact{UserID: u.ID, Name: "Mom", PhoneNumber: "1", ContactType: models.ContactFamily, IsActive: true})
	require.NoError(t, err)
	_, err = svc.Evidence.Add(ctx, &models.Evidence{UserID: u.ID, Type: models.EvidencePhoto, FilePayload: []byte("img")})
	require.NoError(t, err)
	_, err = svc.Alerts.Trigger(ctx, u.ID, nil, "")
	require.NoError(t, err)
	_, err = svc.Locations.Record(ctx, u.ID, 1, 1, 5)
	require.NoError(t, err)
	_, err = svc.Preferences.Get(ctx, u.ID)
	require.NoError(t, err)
	_, err = svc.Risks.Log(ctx, u.ID, &geo.Point{Lat: 1, Lng: 1}, models.RiskHigh, []string{"night"})
	require.NoError(t, err)
	_, err = svc.Contacts.Add(ctx, &models.EmergencyContact{UserID: other.ID, Name: "Dad", PhoneNumber: "2", ContactType: models.ContactFamily})
	require.NoError(t, err)

	removed, err := svc.Users.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed[store.EmergencyContacts])
	assert.Equal(t, int64(1), removed[store.Evidence])
	assert.Equal(t, int64(1), removed[store.SOSAlerts])
	assert.Equal(t, int64(1), removed[store.LocationHistory])
	assert.Equal(t, int64(1), removed[store.UserPreferences])
	assert.Equal(t, int64(1), removed[store.RiskDetections])
	assert.Equal(t, int64(1), removed[store.Users])

	for _, coll := range e.Registry().WithField(store.UserIDField) {
		n, err := e.CountByIndex(ctx, coll, store.UserIDField, u.ID)
		require.NoError(t, err)
		assert.Zero(t, n, coll)
	}
	_, err = svc.Users.Get(ctx, u.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	left, err := svc.Contacts.ListByPriority(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1)

	_, err = svc.Users.Delete(ctx, u.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestStats(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()
	u := mustGuest(t, svc)

	for range 2 {
		_, err := svc.Evidence.Add(ctx, &models.Evidence{UserID: u.ID, Type: models.EvidenceAudio})
		require.NoError(t, err)
	}
	a, err := svc.Alerts.Trigger(ctx, u.ID, nil, "")
	require.NoError(t, err)
	_, err = svc.Alerts.Cancel(ctx, a.ID)
	require.NoError(t, err)
	_, err = svc.Alerts.Trigger(ctx, u.ID, nil, "")
	require.NoError(t, err)
	_, err = svc.Locations.Record(ctx, u.ID, 10, 10, 3)
	require.NoError(t, err)

	st, err := svc.Users.Stats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, Stats{Evidence: 2, Alerts: 2, Contacts: 0, Locations: 1}, st)

	_, err = svc.Users.Stats(ctx, u.ID+100)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserEvents_EmittedAfterCommit(t *testing.T) {
	sink := &recordingSink{}
	svc, _ := newTestServices(t, Options{Sink: sink})
	ctx := context.Background()

	u, err := svc.Users.Register(ctx, "+1", "Asha", nil)
	require.NoError(t, err)
	_, err = svc.Users.Login(ctx, "+1")
	require.NoError(t, err)
	_, err = svc.Users.Delete(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"register", "login", "delete"}, sink.actions(client.EventUserSync))
}
