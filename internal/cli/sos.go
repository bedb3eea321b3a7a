package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newSOSCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{Use: "sos", Short: "Raise and close SOS alerts"}
	cmd.AddCommand(
		newSOSTriggerCommand(st),
		newSOSCloseCommand(st, "cancel", "Cancel an active alert"),
		newSOSCloseCommand(st, "resolve", "Resolve an active alert"),
		newSOSActiveCommand(st),
		newSOSHistoryCommand(st),
	)
	return cmd
}

func newSOSTriggerCommand(st *rootState) *cobra.Command {
	var (
		notes string
		where *pointFlags
	)
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Raise an SOS alert",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			at, err := where.point()
			if err != nil {
				return nil, err
			}
			return a.svc.Alerts.Trigger(ctx, uid, at, notes)
		})),
	}
	cmd.Flags().StringVar(&notes, "notes", "", "notes attached to the alert")
	where = addPointFlags(cmd, "user")
	return cmd
}

func newSOSCloseCommand(st *rootState, verb, short string) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: st.runE(authed(func(ctx context.Context, a *App, _ int64, args []string) (any, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			if verb == "cancel" {
				return a.svc.Alerts.Cancel(ctx, id)
			}
			return a.svc.Alerts.Resolve(ctx, id, notes)
		})),
	}
	if verb == "resolve" {
		cmd.Flags().StringVar(&notes, "notes", "", "resolution notes")
	}
	return cmd
}

func newSOSActiveCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the active alert",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			return a.svc.Alerts.Active(ctx, uid)
		})),
	}
}

func newSOSHistoryCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List alerts, most recent first",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			return a.svc.Alerts.History(ctx, uid)
		})),
	}
}
