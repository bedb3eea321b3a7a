package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/guardian/internal/syncq"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// syncStatus is the outcome of one replay attempt.
type syncStatus struct {
	Mode   Mode         `json:"mode"`
	Report syncq.Report `json:"report"`
}

// syncOnce pings the backend and replays the offline queue when it
// answers. Nothing is replayed while offline, so a pass never burns
// queued events against an unreachable endpoint.
func (a *App) syncOnce(ctx context.Context) (syncStatus, error) {
	q := a.syncer.Queue()
	if a.client == nil {
		n, err := q.Len(ctx)
		return syncStatus{Mode: ModeOffline, Report: syncq.Report{Remaining: n}}, err
	}

	pctx, cancel := context.WithTimeout(ctx, a.cfg.SyncTimeout)
	err := a.client.Ping(pctx)
	cancel()
	if err != nil {
		a.setMode(ctx, ModeOffline)
		a.log.Debug(ctx, "sync endpoint unreachable", "error", err)
		n, err := q.Len(ctx)
		return syncStatus{Mode: ModeOffline, Report: syncq.Report{Remaining: n}}, err
	}
	a.setMode(ctx, ModeOnline)

	rep, err := a.syncer.Replay(ctx)
	return syncStatus{Mode: a.Mode, Report: rep}, err
}

// Watch replays the queue every interval until ctx is done and returns the
// last status.
func (a *App) Watch(ctx context.Context, interval time.Duration) (syncStatus, error) {
	var last syncStatus
	tick := func() {
		st, err := a.syncOnce(ctx)
		if err != nil {
			a.log.Error(ctx, "sync pass failed", "error", err)
			return
		}
		last = st
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), tick); err != nil {
		return last, fmt.Errorf("schedule sync: %w", err)
	}

	tick()
	c.Start()
	a.log.Info(ctx, "watching offline queue", "interval", interval)

	<-ctx.Done()
	<-c.Stop().Done()
	return last, nil
}

func newQueueCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{Use: "queue", Short: "Inspect and replay the offline queue"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List queued requests, oldest first",
			Args:  cobra.NoArgs,
			RunE: st.runE(func(ctx context.Context, a *App, _ []string) (any, error) {
				return a.syncer.Queue().List(ctx)
			}),
		},
		&cobra.Command{
			Use:   "replay",
			Short: "Replay the queue once if the backend is reachable",
			Args:  cobra.NoArgs,
			RunE: st.runE(func(ctx context.Context, a *App, _ []string) (any, error) {
				return a.syncOnce(ctx)
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Drop every queued request",
			Args:  cobra.NoArgs,
			RunE: st.runE(func(ctx context.Context, a *App, _ []string) (any, error) {
				return nil, a.syncer.Queue().Clear(ctx)
			}),
		},
	)
	return cmd
}

func newWatchCommand(st *rootState) *cobra.Command {
	var every time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Replay the offline queue periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: st.runE(func(ctx context.Context, a *App, _ []string) (any, error) {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			interval := a.cfg.SyncInterval
			if every > 0 {
				interval = every
			}
			return a.Watch(ctx, interval)
		}),
	}
	cmd.Flags().DurationVar(&every, "every", 0, "replay interval, overrides the configured one")
	return cmd
}
