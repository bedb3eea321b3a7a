package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var errNotConfirmed = errors.New("account deletion not confirmed")

func newRegisterCommand(st *rootState) *cobra.Command {
	var phone, name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: st.runE(func(ctx context.Context, a *App, _ []string) (any, error) {
			var mail *string
			if email != "" {
				mail = &email
			}
			u, err := a.svc.Users.Register(ctx, phone, name, mail)
			if err != nil {
				return nil, err
			}
			return u, a.signIn(ctx, u.ID, false)
		}),
	}
	cmd.Flags().StringVarP(&phone, "phone", "p", "", "phone number (unique)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newGuestCommand(st *rootState) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Continue as a guest without a phone number",
		Args:  cobra.NoArgs,
		RunE: st.runE(func(ctx context.Context, a *App, _ []string) (any, error) {
			u, err := a.svc.Users.CreateGuest(ctx, name)
			if err != nil {
				return nil, err
			}
			return u, a.signIn(ctx, u.ID, true)
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	return cmd
}

func newLoginCommand(st *rootState) *cobra.Command {
	var phone string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a registered phone number",
		Args:  cobra.NoArgs,
		RunE: st.runE(func(ctx context.Context, a *App, _ []string) (any, error) {
			u, err := a.svc.Users.Login(ctx, phone)
			if err != nil {
				return nil, err
			}
			return u, a.signIn(ctx, u.ID, u.IsGuest)
		}),
	}
	cmd.Flags().StringVarP(&phone, "phone", "p", "", "phone number")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func newLogoutCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: st.runE(func(ctx context.Context, a *App, _ []string) (any, error) {
			return nil, a.signOut(ctx)
		}),
	}
}

func newWhoamiCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			return a.svc.Users.Get(ctx, uid)
		})),
	}
}

func newDeleteAccountCommand(st *rootState) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete the signed-in user and all of their data",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			if !yes {
				answer, err := GetSimpleText(a.reader, fmt.Sprintf("Type %d to delete this account and all of its data", uid), a.out)
				if err != nil {
					return nil, err
				}
				if answer != strconv.FormatInt(uid, 10) {
					return nil, errNotConfirmed
				}
			}
			removed, err := a.svc.Users.Delete(ctx, uid)
			if err != nil {
				return nil, err
			}
			return removed, a.signOut(ctx)
		})),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newStatsCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count the signed-in user's evidence, alerts, contacts and locations",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			return a.svc.Users.Stats(ctx, uid)
		})),
	}
}
