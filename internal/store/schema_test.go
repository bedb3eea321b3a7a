package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()

	assert.Equal(t, int64(1), reg.Version())
	assert.Len(t, reg.Names(), 10)

	users, err := reg.Collection(Users)
	require.NoError(t, err)
	phone, err := users.Index("phone_number")
	require.NoError(t, err)
	assert.True(t, phone.Unique)

	prefs, err := reg.Collection(UserPreferences)
	require.NoError(t, err)
	uid, err := prefs.Index(UserIDField)
	require.NoError(t, err)
	assert.True(t, uid.Unique)

	assert.Equal(t, []string{
		EmergencyContacts, Evidence, SOSAlerts, LocationHistory, SafeZones,
		UserPreferences, FakeCallTemplates, RiskDetections,
	}, reg.WithField(UserIDField))
}

func TestNewRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name string
		defs []CollectionDef
	}{
		{"bad name", []CollectionDef{{Name: "Robert'); DROP TABLE"}}},
		{"duplicate collection", []CollectionDef{{Name: "a"}, {Name: "a"}}},
		{"duplicate index", []CollectionDef{{Name: "a", Indexes: []Index{{Name: "x", Field: "x"}, {Name: "x", Field: "y"}}}}},
		{"bad field", []CollectionDef{{Name: "a", Indexes: []Index{{Name: "x", Field: "x.y"}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs...)
			require.Error(t, err)
		})
	}
}

func TestRegistry_StatementsPerVersion(t *testing.T) {
	reg := MustRegistry(
		CollectionDef{Name: "a", Indexes: []Index{{Name: "x", Field: "x"}, {Name: "y", Field: "y", Since: 3}}},
		CollectionDef{Name: "b", Since: 2},
	)
	require.Equal(t, int64(3), reg.Version())

	v1 := reg.statements(1)
	assert.Len(t, v1, len(auxTables)+2, "aux tables, table a, index a.x")
	assert.Len(t, reg.statements(2), 1)
	require.Len(t, reg.statements(3), 1)
	assert.Contains(t, reg.statements(3)[0], "idx_a_y")
}

func TestIndexArg(t *testing.T) {
	var nilPtr *int64
	tests := []struct {
		name   string
		in     any
		want   any
		isNull bool
	}{
		{"nil", nil, nil, true},
		{"nil pointer", nilPtr, nil, true},
		{"pointer", ptr(int64(5)), int64(5), false},
		{"int", 3, int64(3), false},
		{"uint", uint8(3), int64(3), false},
		{"true", true, int64(1), false},
		{"false", false, int64(0), false},
		{"string", "x", "x", false},
		{"float", 1.5, 1.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isNull, err := indexArg(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.isNull, isNull)
			assert.Equal(t, tt.want, got)
		})
	}
}
