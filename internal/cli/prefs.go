package cli

import (
	"context"

	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/spf13/cobra"
)

func newPrefsCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{Use: "prefs", Short: "Show and change preferences"}
	cmd.AddCommand(newPrefsShowCommand(st), newPrefsSetCommand(st))
	return cmd
}

func newPrefsShowCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show preferences",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			return a.svc.Preferences.Get(ctx, uid)
		})),
	}
}

func newPrefsSetCommand(st *rootState) *cobra.Command {
	var in models.UserPreferences
	var theme string
	var cmd *cobra.Command
	cmd = &cobra.Command{
		Use:   "set",
		Short: "Change the given preferences, keeping the rest",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			p, err := a.svc.Preferences.Get(ctx, uid)
			if err != nil {
				return nil, err
			}
			f := cmd.Flags()
			if f.Changed("theme") {
				p.Theme = models.Theme(theme)
			}
			if f.Changed("language") {
				p.Language = in.Language
			}
			if f.Changed("fake-call-name") {
				p.FakeCallContactName = in.FakeCallContactName
			}
			if f.Changed("fake-call-language") {
				p.FakeCallLanguage = in.FakeCallLanguage
			}
			if f.Changed("gestures") {
				p.InvisibleGestures = in.InvisibleGestures
			}
			if f.Changed("auto-record") {
				p.AutoRecordSOS = in.AutoRecordSOS
			}
			if f.Changed("share-location") {
				p.ShareLocationAuto = in.ShareLocationAuto
			}
			return p, a.svc.Preferences.Save(ctx, p)
		})),
	}
	f := cmd.Flags()
	f.StringVar(&theme, "theme", "", "light|dark|system")
	f.StringVar(&in.Language, "language", "", "app language")
	f.StringVar(&in.FakeCallContactName, "fake-call-name", "", "caller shown on fake calls")
	f.StringVar(&in.FakeCallLanguage, "fake-call-language", "", "fake call voice language")
	f.BoolVar(&in.InvisibleGestures, "gestures", false, "enable invisible gestures")
	f.BoolVar(&in.AutoRecordSOS, "auto-record", false, "record audio when an SOS is raised")
	f.BoolVar(&in.ShareLocationAuto, "share-location", false, "share recorded locations with the backend")
	return cmd
}
