package cli

import (
	"context"

	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/spf13/cobra"
)

func newFakeCallCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{Use: "fakecall", Short: "Fake incoming call templates"}
	cmd.AddCommand(newFakeCallAddCommand(st), newFakeCallListCommand(st), newFakeCallDefaultCommand(st))
	return cmd
}

func newFakeCallAddCommand(st *rootState) *cobra.Command {
	var t models.FakeCallTemplate
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a fake call template",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			rec := t
			rec.UserID = uid
			return a.svc.FakeCalls.Add(ctx, &rec)
		})),
	}
	f := cmd.Flags()
	f.StringVar(&t.CallerName, "caller", "", "caller name shown on screen")
	f.StringVar(&t.CallerImageURL, "image", "", "caller picture URL")
	f.StringVar(&t.Language, "language", "en", "voice language")
	f.BoolVar(&t.IsDefault, "default", false, "make this the default template")
	_ = cmd.MarkFlagRequired("caller")
	return cmd
}

func newFakeCallListCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fake call templates",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			return a.svc.FakeCalls.List(ctx, uid)
		})),
	}
}

func newFakeCallDefaultCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "default [id]",
		Short: "Show the default template, or make template id the default",
		Args:  cobra.MaximumNArgs(1),
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, args []string) (any, error) {
			if len(args) == 0 {
				return a.svc.FakeCalls.Default(ctx, uid)
			}
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return a.svc.FakeCalls.SetDefault(ctx, id)
		})),
	}
}
