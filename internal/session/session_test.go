package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	m   map[string][]byte
	err error
}

func newMemStore() *memStore { return &memStore{m: map[string][]byte{}} }

func (s *memStore) Get(_ context.Context, k string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.m[k], nil
}

func (s *memStore) Set(_ context.Context, k string, v []byte) error {
	if s.err != nil {
		return s.err
	}
	s.m[k] = v
	return nil
}

func (s *memStore) Delete(_ context.Context, k string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.m, k)
	return nil
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()

	_, err := Load(ctx, st)
	require.ErrorIs(t, err, ErrNoSession)

	s := New(7, true)
	require.NoError(t, s.Save(ctx, st))

	got, err := Load(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.True(t, got.IsGuest)
	assert.True(t, s.StartedAt.Equal(got.StartedAt))

	require.NoError(t, Clear(ctx, st))
	require.NoError(t, Clear(ctx, st))
	_, err = Load(ctx, st)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestLoad_Corrupt(t *testing.T) {
	st := newMemStore()
	st.m[key] = []byte("{not json")

	_, err := Load(context.Background(), st)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoSession)
}

func TestStoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	st := &memStore{m: map[string][]byte{}, err: boom}

	_, err := Load(ctx, st)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, New(1, false).Save(ctx, st), boom)
	require.ErrorIs(t, Clear(ctx, st), boom)
}
