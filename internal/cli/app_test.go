package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/config"
	"github.com/dmitrijs2005/guardian/internal/logging"
	"github.com/dmitrijs2005/guardian/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu      sync.Mutex
	online  bool
	events  []client.Event
	userIDs []int64
	closed  bool
}

func (f *fakeClient) SubmitEvent(_ context.Context, ev client.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.online {
		return client.ErrUnavailable
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeClient) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.online {
		return client.ErrUnavailable
	}
	return nil
}

func (f *fakeClient) Close() error { f.closed = true; return nil }

func (f *fakeClient) SetUser(id int64) { f.userIDs = append(f.userIDs, id) }

func (f *fakeClient) setOnline(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online = v
}

func (f *fakeClient) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func testConfig(path string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DBPath = path
	cfg.SyncEndpointAddr = ""
	cfg.S3.Bucket = ""
	return cfg
}

type testApp struct {
	*App
	out *bytes.Buffer
}

func newTestApp(t *testing.T, path, input string, opts ...Option) *testApp {
	t.Helper()
	out := &bytes.Buffer{}
	opts = append([]Option{
		WithOutput(out),
		WithInput(strings.NewReader(input)),
		WithLogger(logging.NewNop()),
	}, opts...)
	a, err := NewApp(context.Background(), testConfig(path), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return &testApp{App: a, out: out}
}

type result struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// run executes one command line and decodes the rendered result.
func (ta *testApp) run(t *testing.T, args ...string) result {
	t.Helper()
	ta.out.Reset()
	cmd := NewRootCommand(ta.App)
	cmd.SetArgs(args)
	cmd.SetOut(ta.out)
	cmd.SetErr(ta.out)
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	raw := ta.out.String()
	if i := strings.Index(raw, "{"); i > 0 {
		raw = raw[i:]
	}
	var r result
	require.NoError(t, json.Unmarshal([]byte(raw), &r), raw)
	return r
}

func decode[T any](t *testing.T, r result) T {
	t.Helper()
	require.True(t, r.Success, r.Error)
	var v T
	if len(r.Data) == 0 {
		return v
	}
	require.NoError(t, json.Unmarshal(r.Data, &v))
	return v
}

func TestNewApp_BadStorePath(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing", "dir", "g.db"))
	_, err := NewApp(context.Background(), cfg, WithLogger(logging.NewNop()))
	require.Error(t, err)
}

func TestSession_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardian.db")
	fc := &fakeClient{}

	a1 := newTestApp(t, path, "", WithClient(fc))
	r := a1.run(t, "guest", "--name", "Walker")
	u := decode[map[string]any](t, r)
	require.NoError(t, a1.Close())

	a2 := newTestApp(t, path, "")
	who := decode[map[string]any](t, a2.run(t, "whoami"))
	assert.Equal(t, u["id"], who["id"])
	assert.Equal(t, "Walker", who["name"])

	assert.NotEmpty(t, fc.userIDs)
	assert.True(t, fc.closed)
}

func TestSetMode_LogsOnlyOnChange(t *testing.T) {
	a := newTestApp(t, store.MemoryPath, "")
	assert.Equal(t, ModeOffline, a.Mode)

	a.setMode(context.Background(), ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode)
	a.setMode(context.Background(), ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode)
}
