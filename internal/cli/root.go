package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/guardian/internal/config"
	"github.com/spf13/cobra"
)

// ErrCommandFailed is returned by Execute when the command rendered a
// failed result.
var ErrCommandFailed = errors.New("command failed")

type appFactory func(ctx context.Context) (*App, error)

// rootState carries the lazily opened App through one command tree.
type rootState struct {
	open   appFactory
	app    *App
	owned  bool
	failed bool
}

func (st *rootState) get(ctx context.Context) (*App, error) {
	if st.app != nil {
		return st.app, nil
	}
	a, err := st.open(ctx)
	if err != nil {
		return nil, err
	}
	st.app = a
	return a, nil
}

func (st *rootState) close() error {
	if st.app == nil || !st.owned {
		return nil
	}
	err := st.app.Close()
	st.app = nil
	return err
}

// Execute runs the command line in args against a freshly built App.
func Execute(ctx context.Context, cfg *config.Config, args []string, opts ...Option) error {
	st := &rootState{
		open:  func(ctx context.Context) (*App, error) { return NewApp(ctx, cfg, opts...) },
		owned: true,
	}
	cmd := newRootCommand(st)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if cerr := st.close(); err == nil {
		err = cerr
	}
	if err == nil && st.failed {
		err = ErrCommandFailed
	}
	return err
}

// NewRootCommand builds the command tree over an already open App. The
// caller keeps ownership of a.
func NewRootCommand(a *App) *cobra.Command {
	return newRootCommand(&rootState{app: a})
}

func newRootCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "guardian",
		Short:         "Guardian personal safety client",
		Long:          "Local-first storage for contacts, evidence, SOS alerts, locations and safe zones, with offline sync.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Parsed by config.Load; declared here so the command tree accepts them.
	var ignoredS string
	var ignoredI int
	pf := cmd.PersistentFlags()
	pf.StringVarP(&ignoredS, "config", "c", "", "path to JSON or YAML config file")
	pf.StringVarP(&ignoredS, "db", "d", "", "SQLite database path")
	pf.StringVarP(&ignoredS, "addr", "a", "", "address and port of the sync server")
	pf.IntVarP(&ignoredI, "timeout", "t", 0, "store operation timeout (in seconds)")
	pf.IntVarP(&ignoredI, "interval", "i", 0, "offline queue replay interval (in seconds)")
	pf.StringVarP(&ignoredS, "log-level", "l", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(
		newRegisterCommand(st),
		newGuestCommand(st),
		newLoginCommand(st),
		newLogoutCommand(st),
		newWhoamiCommand(st),
		newDeleteAccountCommand(st),
		newStatsCommand(st),
		newContactCommand(st),
		newEvidenceCommand(st),
		newSOSCommand(st),
		newLocationCommand(st),
		newZoneCommand(st),
		newPrefsCommand(st),
		newResponderCommand(st),
		newFakeCallCommand(st),
		newRiskCommand(st),
		newQueueCommand(st),
		newWatchCommand(st),
		newShellCommand(st),
	)
	return cmd
}
