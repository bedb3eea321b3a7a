package syncq

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncer_SubmitSentOrQueued(t *testing.T) {
	q := openQueue(t, Options{})
	ctx := context.Background()
	sub := &scriptedSubmitter{fail: map[string]error{}}
	s := NewSyncer(sub, q, nil)

	ok := client.NewEvent(client.EventUserSync, nil)
	require.NoError(t, s.Submit(ctx, ok))

	bad := client.NewEvent(client.EventEvidence, nil)
	sub.fail[bad.ID] = client.ErrUnavailable
	require.NoError(t, s.Submit(ctx, bad))

	items, err := q.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "evidence", items[0].Endpoint)

	// backend is back
	delete(sub.fail, bad.ID)
	rep, err := s.Replay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Succeeded)
	assert.Equal(t, []string{ok.ID, bad.ID, bad.ID}, sub.calls)
}

func TestSyncer_OfflineOnly(t *testing.T) {
	q := openQueue(t, Options{})
	ctx := context.Background()
	s := NewSyncer(nil, q, nil)

	require.NoError(t, s.Submit(ctx, client.NewEvent(client.EventLocation, nil)))

	rep, err := s.Replay(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rep.Remaining)
	assert.Zero(t, rep.Attempted)
}
