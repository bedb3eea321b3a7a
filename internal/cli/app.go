package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/guardian/internal/blobstore"
	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/config"
	"github.com/dmitrijs2005/guardian/internal/logging"
	"github.com/dmitrijs2005/guardian/internal/services"
	"github.com/dmitrijs2005/guardian/internal/session"
	"github.com/dmitrijs2005/guardian/internal/settings"
	"github.com/dmitrijs2005/guardian/internal/store"
	"github.com/dmitrijs2005/guardian/internal/syncq"
	"github.com/prometheus/client_golang/prometheus"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App owns every long-lived dependency of a CLI run.
type App struct {
	cfg      *config.Config
	log      logging.Logger
	closeLog func() error

	engine   *store.Engine
	settings *settings.SQLiteRepository
	client   client.Client
	syncer   *syncq.Syncer
	blob     *blobstore.S3Store
	svc      *services.Services
	session  *session.Session

	Mode   Mode
	out    io.Writer
	reader *bufio.Reader
}

type appOptions struct {
	client   client.Client
	uploader services.Uploader
	out      io.Writer
	in       io.Reader
	registry prometheus.Registerer
	logger   logging.Logger
}

type Option func(*appOptions)

// WithClient replaces the gRPC sync client.
func WithClient(c client.Client) Option { return func(o *appOptions) { o.client = c } }

// WithUploader replaces the S3 evidence uploader.
func WithUploader(u services.Uploader) Option { return func(o *appOptions) { o.uploader = u } }

func WithOutput(w io.Writer) Option { return func(o *appOptions) { o.out = w } }

func WithInput(r io.Reader) Option { return func(o *appOptions) { o.in = r } }

// WithRegisterer sets where store and queue metrics are registered.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *appOptions) { o.registry = reg }
}

func WithLogger(l logging.Logger) Option { return func(o *appOptions) { o.logger = l } }

// NewApp wires the application from cfg. The caller must Close it.
func NewApp(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := appOptions{out: os.Stdout, in: os.Stdin}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	a := &App{cfg: cfg, out: o.out, reader: bufio.NewReader(o.in), Mode: ModeOffline, closeLog: func() error { return nil }}

	a.log = o.logger
	if a.log == nil {
		l, closeLog, err := logging.New(logging.Options{
			Backend: cfg.Log.Backend,
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			File:    cfg.Log.File,
		})
		if err != nil {
			_ = closeLog()
			return nil, err
		}
		a.log, a.closeLog = l, closeLog
	}

	e, err := store.Open(ctx, store.Options{
		Path:      cfg.DBPath,
		OpTimeout: cfg.OpTimeout,
		Logger:    a.log,
		Metrics:   store.NewMetrics(o.registry),
	})
	if err != nil {
		a.log.Error(ctx, "error opening store", "path", cfg.DBPath, "error", err)
		_ = a.closeLog()
		return nil, err
	}
	a.engine = e
	a.settings = settings.NewSQLiteRepository(e)

	a.client = o.client
	if a.client == nil && cfg.SyncEndpointAddr != "" {
		c, err := client.NewGRPCClient(cfg.SyncEndpointAddr, cfg.SyncTimeout)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("sync client: %w", err)
		}
		a.client = c
	}

	queue := syncq.NewQueue(e, syncq.Options{
		Policy:     cfg.QueuePolicy,
		MaxRetries: cfg.QueueMaxRetries,
		Backoff:    cfg.QueueBackoff,
		Logger:     a.log,
		Metrics:    syncq.NewMetrics(o.registry),
	})
	var sub syncq.Submitter
	if a.client != nil {
		sub = a.client
	}
	a.syncer = syncq.NewSyncer(sub, queue, a.log)

	var up services.Uploader
	switch {
	case o.uploader != nil:
		up = o.uploader
	case cfg.S3.Bucket != "":
		a.blob = blobstore.NewS3Store(blobstore.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		up = a.blob
	}

	a.svc = services.New(e, services.Options{
		Sink:              a.syncer,
		Uploader:          up,
		ResponderCacheTTL: cfg.ResponderCacheTTL,
		Logger:            a.log,
	})

	s, err := session.Load(ctx, a.settings)
	switch {
	case err == nil:
		a.setSession(s)
	case errors.Is(err, session.ErrNoSession):
	default:
		a.log.Warn(ctx, "session not restored", "error", err)
	}

	return a, nil
}

// Close releases the client, the store and the log sink.
func (a *App) Close() error {
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if a.engine != nil {
		errs = append(errs, a.engine.Close())
	}
	errs = append(errs, a.closeLog())
	return errors.Join(errs...)
}

type userSetter interface {
	SetUser(id int64)
}

func (a *App) setSession(s *session.Session) {
	a.session = s
	var id int64
	if s != nil {
		id = s.UserID
	}
	if us, ok := a.client.(userSetter); ok {
		us.SetUser(id)
	}
}

// signIn persists a session for userID.
func (a *App) signIn(ctx context.Context, userID int64, guest bool) error {
	s := session.New(userID, guest)
	if err := s.Save(ctx, a.settings); err != nil {
		return err
	}
	a.setSession(s)
	a.log.Info(ctx, "signed in", "user_id", userID, "guest", guest)
	return nil
}

func (a *App) signOut(ctx context.Context) error {
	if err := session.Clear(ctx, a.settings); err != nil {
		return err
	}
	a.setSession(nil)
	return nil
}

// currentUser is the signed-in user id or session.ErrNoSession.
func (a *App) currentUser() (int64, error) {
	if a.session == nil {
		return 0, session.ErrNoSession
	}
	return a.session.UserID, nil
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(ctx, "sync mode changed", "mode", mode)
	}
}
