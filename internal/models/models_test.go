package models

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type validator interface{ Validate() error }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rec     validator
		wantErr bool
	}{
		{"user ok", &User{Name: "Ann", PhoneNumber: ptr("+100")}, false},
		{"user without phone", &User{Name: "Ann"}, true},
		{"guest ok", &User{Name: "Guest", IsGuest: true}, false},
		{"guest with phone", &User{Name: "Guest", IsGuest: true, PhoneNumber: ptr("+1")}, true},
		{"user bad email", &User{Name: "Ann", PhoneNumber: ptr("+1"), Email: ptr("nope")}, true},

		{"contact ok", &EmergencyContact{UserID: 1, Name: "Mom", PhoneNumber: "+1", ContactType: ContactFamily}, false},
		{"contact bad type", &EmergencyContact{UserID: 1, Name: "Mom", PhoneNumber: "+1", ContactType: "enemy"}, true},
		{"contact no user", &EmergencyContact{Name: "Mom", PhoneNumber: "+1", ContactType: ContactFamily}, true},

		{"evidence ok", &Evidence{UserID: 1, Type: EvidencePhoto, FileSize: 3, FilePayload: []byte("abc")}, false},
		{"evidence half point", &Evidence{UserID: 1, Type: EvidencePhoto, LocationLat: ptr(1.0)}, true},
		{"evidence bad type", &Evidence{UserID: 1, Type: "gif"}, true},

		{"alert ok", &SOSAlert{UserID: 1, Status: AlertActive, LocationLat: ptr(1.0), LocationLng: ptr(2.0)}, false},
		{"alert bad coords", &SOSAlert{UserID: 1, Status: AlertActive, LocationLat: ptr(91.0), LocationLng: ptr(2.0)}, true},

		{"location ok", &LocationHistory{UserID: 1, Latitude: 10, Longitude: 10}, false},
		{"location bad lng", &LocationHistory{UserID: 1, Latitude: 10, Longitude: 181}, true},

		{"zone ok", &SafeZone{UserID: 1, Name: "home", Latitude: 10, Longitude: 10, RadiusMeters: 50}, false},
		{"zone zero radius", &SafeZone{UserID: 1, Name: "home"}, true},

		{"prefs default", DefaultPreferences(1), false},
		{"prefs bad theme", &UserPreferences{UserID: 1, Theme: "neon", Language: "en", FakeCallLanguage: "en"}, true},

		{"responder ok", &CommunityResponder{Name: "Desk", Type: ResponderPolice, Rating: 5}, false},
		{"responder rating high", &CommunityResponder{Name: "Desk", Type: ResponderPolice, Rating: 5.5}, true},

		{"fake call ok", &FakeCallTemplate{UserID: 1, CallerName: "Boss"}, false},
		{"fake call no caller", &FakeCallTemplate{UserID: 1}, true},

		{"risk ok", &RiskDetection{UserID: 1, RiskLevel: RiskHigh}, false},
		{"risk bad level", &RiskDetection{UserID: 1, RiskLevel: "extreme"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEvidence_TooLarge(t *testing.T) {
	e := &Evidence{UserID: 1, Type: EvidenceVideo, FileSize: common.MaxEvidenceSize + 1}
	err := e.Validate()
	require.ErrorIs(t, err, ErrPayloadTooLarge)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	e.FileSize = common.MaxEvidenceSize
	require.NoError(t, e.Validate())
}

func TestAlertStatus_CanTransition(t *testing.T) {
	assert.True(t, AlertActive.CanTransition(AlertCancelled))
	assert.True(t, AlertActive.CanTransition(AlertResolved))
	assert.False(t, AlertActive.CanTransition(AlertActive))
	assert.False(t, AlertCancelled.CanTransition(AlertResolved))
	assert.False(t, AlertResolved.CanTransition(AlertActive))
}

func TestResponder_Rate(t *testing.T) {
	r := &CommunityResponder{Rating: 4.0, ResponseCount: 2}
	r.Rate(5)

	assert.InDelta(t, 13.0/3.0, r.Rating, 1e-9)
	assert.Equal(t, int64(3), r.ResponseCount)

	fresh := &CommunityResponder{}
	fresh.Rate(3)
	assert.Equal(t, 3.0, fresh.Rating)
	assert.Equal(t, int64(1), fresh.ResponseCount)
}

func TestSafeZone_Contains(t *testing.T) {
	z := &SafeZone{Latitude: 10, Longitude: 10, RadiusMeters: 50, IsActive: true}

	assert.True(t, z.Contains(geo.Point{Lat: 10.0003, Lng: 10}))
	assert.False(t, z.Contains(geo.Point{Lat: 10.01, Lng: 10}))

	z.IsActive = false
	assert.False(t, z.Contains(geo.Point{Lat: 10, Lng: 10}))
}

// Index lookups use json_extract on these names, so the tags must not drift.
func TestJSONTags_MatchIndexFields(t *testing.T) {
	tests := []struct {
		rec    any
		fields []string
	}{
		{&User{}, []string{"phone_number", "email"}},
		{&EmergencyContact{}, []string{"user_id", "contact_type"}},
		{&Evidence{}, []string{"user_id", "type", "created_at"}},
		{&SOSAlert{}, []string{"user_id", "status", "triggered_at"}},
		{&LocationHistory{}, []string{"user_id", "timestamp"}},
		{&SafeZone{}, []string{"user_id"}},
		{&UserPreferences{}, []string{"user_id"}},
		{&CommunityResponder{}, []string{"type", "is_verified"}},
		{&FakeCallTemplate{}, []string{"user_id"}},
		{&RiskDetection{}, []string{"user_id", "risk_level"}},
	}
	for _, tt := range tests {
		b, err := json.Marshal(tt.rec)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(b, &m))
		for _, f := range tt.fields {
			assert.Contains(t, m, f, "%T", tt.rec)
		}
	}
}
