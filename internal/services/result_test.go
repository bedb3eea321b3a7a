package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	ok := Outcome(42, nil)
	assert.Equal(t, Result{Success: true, Data: 42}, ok)

	failed := Outcome(42, fmt.Errorf("x: %w", common.ErrStorageUnavailable))
	assert.False(t, failed.Success)
	assert.Nil(t, failed.Data)
	assert.Contains(t, failed.Error, "storage is unavailable")
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"closed", common.ErrEngineClosed, "storage is closed"},
		{"unavailable", fmt.Errorf("open: %w", common.ErrStorageUnavailable), "storage is unavailable, reload and try again"},
		{"timeout", fmt.Errorf("count evidence: %w: %w", common.ErrTimeout, context.DeadlineExceeded), "storage is busy, try again"},
		{"not found", fmt.Errorf("user 3: %w", common.ErrNotFound), "not found: user 3: not found"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestEmit_SinkErrorDoesNotFailOperation(t *testing.T) {
	sink := &recordingSink{err: client.ErrUnavailable}
	svc, _ := newTestServices(t, Options{Sink: sink})

	u, err := svc.Users.CreateGuest(context.Background(), "")
	require.NoError(t, err)
	assert.Positive(t, u.ID)
	assert.Len(t, sink.events, 1)
}
