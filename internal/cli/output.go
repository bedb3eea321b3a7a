package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dmitrijs2005/guardian/internal/logging"
	"github.com/dmitrijs2005/guardian/internal/services"
	"github.com/dmitrijs2005/guardian/internal/session"
	"github.com/spf13/cobra"
)

// render writes r as indented JSON.
func render(w io.Writer, r services.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// action is the body of a command: whatever it returns becomes the Result.
type action func(ctx context.Context, a *App, args []string) (any, error)

// authed wraps fn so it only runs with a signed-in user.
func authed(fn func(ctx context.Context, a *App, userID int64, args []string) (any, error)) action {
	return func(ctx context.Context, a *App, args []string) (any, error) {
		uid, err := a.currentUser()
		if err != nil {
			return nil, fmt.Errorf("%w: run `guardian login` or `guardian guest` first", session.ErrNoSession)
		}
		return fn(ctx, a, uid, args)
	}
}

// runE adapts fn to cobra. The outcome is always rendered; a failed
// outcome is remembered so the process can exit non-zero.
func (st *rootState) runE(fn action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := st.get(cmd.Context())
		if err != nil {
			st.failed = true
			return render(cmd.OutOrStdout(), services.Outcome(nil, err))
		}
		ctx := logging.ContextWith(cmd.Context(), "command", cmd.CommandPath())
		data, err := fn(ctx, a, args)
		res := services.Outcome(data, err)
		if !res.Success {
			st.failed = true
			a.log.Debug(ctx, "command failed", "error", err)
		}
		return render(a.out, res)
	}
}
