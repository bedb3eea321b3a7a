package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []client.Event
	err    error
}

func (s *recordingSink) Submit(_ context.Context, ev client.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) actions(t client.EventType) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, ev := range s.events {
		if ev.Type == t {
			out = append(out, ev.Payload["action"].(string))
		}
	}
	return out
}

type fakeUploader struct {
	keys  []string
	err   error
	calls int
}

func (u *fakeUploader) Put(_ context.Context, key string, _ []byte, _ string) error {
	u.calls++
	if u.err != nil {
		return u.err
	}
	u.keys = append(u.keys, key)
	return nil
}

func openEngine(t *testing.T) *store.Engine {
	t.Helper()
	e, err := store.Open(context.Background(), store.Options{Path: store.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func newTestServices(t *testing.T, opts Options) (*Services, *store.Engine) {
	t.Helper()
	e := openEngine(t)
	return New(e, opts), e
}

func mustGuest(t *testing.T, svc *Services) *models.User {
	t.Helper()
	u, err := svc.Users.CreateGuest(context.Background(), "")
	require.NoError(t, err)
	return u
}

func ptr[T any](v T) *T { return &v }
