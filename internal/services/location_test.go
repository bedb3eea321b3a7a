package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/geo"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZones_Contains(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()
	u := mustGuest(t, svc)

	z, err := svc.Zones.Add(ctx, &models.SafeZone{UserID: u.ID, Name: "Home", Latitude: 10, Longitude: 10, RadiusMeters: 50, IsActive: true})
	require.NoError(t, err)

	found, ok, err := svc.Zones.Contains(ctx, u.ID, geo.Point{Lat: 10.0003, Lng: 10})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, z.ID, found.ID)

	_, ok, err = svc.Zones.Contains(ctx, u.ID, geo.Point{Lat: 10.01, Lng: 10})
	require.NoError(t, err)
	assert.False(t, ok)

	z.IsActive = false
	require.NoError(t, svc.Zones.Update(ctx, z))
	_, ok, err = svc.Zones.Contains(ctx, u.ID, geo.Point{Lat: 10.0003, Lng: 10})
	require.NoError(t, err)
	assert.False(t, ok, "inactive zones contain nothing")

	_, _, err = svc.Zones.Contains(ctx, u.ID, geo.Point{Lat: 100})
	require.ErrorIs(t, err, geo.ErrInvalidCoordinates)
}

func TestZones_ListAndRemove(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()
	u := mustGuest(t, svc)

	a, err := svc.Zones.Add(ctx, &models.SafeZone{UserID: u.ID, Name: "Home", Latitude: 1, Longitude: 1, RadiusMeters: 10, IsActive: true})
	require.NoError(t, err)
	b, err := svc.Zones.Add(ctx, &models.SafeZone{UserID: u.ID, Name: "Work", Latitude: 2, Longitude: 2, RadiusMeters: 10, IsActive: true})
	require.NoError(t, err)

	_, err = svc.Zones.Add(ctx, &models.SafeZone{UserID: u.ID, Name: "Bad", RadiusMeters: 0})
	require.Error(t, err)

	list, err := svc.Zones.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)

	require.NoError(t, svc.Zones.Remove(ctx, a.ID))
	list, err = svc.Zones.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestLocations_RecordFlagsSafeZone(t *testing.T) {
	sink := &recordingSink{}
	svc, _ := newTestServices(t, Options{Sink: sink})
	ctx := context.Background()
	u := mustGuest(t, svc)

	_, err := svc.Zones.Add(ctx, &models.SafeZone{UserID: u.ID, Name: "Home", Latitude: 10, Longitude: 10, RadiusMeters: 50, IsActive: true})
	require.NoError(t, err)

	in, err := svc.Locations.Record(ctx, u.ID, 10.0003, 10, 5)
	require.NoError(t, err)
	assert.True(t, in.IsSafeZone)

	out, err := svc.Locations.Record(ctx, u.ID, 10.01, 10, 5)
	require.NoError(t, err)
	assert.False(t, out.IsSafeZone)

	assert.Equal(t, []string{"record", "record"}, sink.actions(client.EventLocation))
}

func TestLocations_SharingFollowsPreferences(t *testing.T) {
	sink := &recordingSink{}
	svc, _ := newTestServices(t, Options{Sink: sink})
	ctx := context.Background()
	u := mustGuest(t, svc)

	p, err := svc.Preferences.Get(ctx, u.ID)
	require.NoError(t, err)
	p.ShareLocationAuto = false
	require.NoError(t, svc.Preferences.Save(ctx, p))

	_, err = svc.Locations.Record(ctx, u.ID, 1, 1, 5)
	require.NoError(t, err)
	assert.Empty(t, sink.actions(client.EventLocation))
}

func TestLocations_Validation(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()
	u := mustGuest(t, svc)

	_, err := svc.Locations.Record(ctx, u.ID, 0, 181, 5)
	require.ErrorIs(t, err, geo.ErrInvalidCoordinates)

	_, err = svc.Locations.Record(ctx, u.ID, 0, 0, -1)
	require.Error(t, err)
}

func TestLocations_HistoryLimit(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()
	u := mustGuest(t, svc)

	var last int64
	for i := range 5 {
		l, err := svc.Locations.Record(ctx, u.ID, float64(i), 0, 1)
		require.NoError(t, err)
		last = l.ID
		time.Sleep(time.Millisecond)
	}

	hist, err := svc.Locations.History(ctx, u.ID, 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, last, hist[0].ID)
	assert.Greater(t, hist[0].ID, hist[1].ID)

	all, err := svc.Locations.History(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
