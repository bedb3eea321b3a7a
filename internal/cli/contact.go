package cli

import (
	"context"

	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/spf13/cobra"
)

func newContactCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{Use: "contact", Short: "Manage emergency contacts"}
	cmd.AddCommand(newContactAddCommand(st), newContactListCommand(st), newContactRemoveCommand(st))
	return cmd
}

func newContactAddCommand(st *rootState) *cobra.Command {
	var (
		c        models.EmergencyContact
		kind     string
		inactive bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an emergency contact",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			rec := c
			rec.UserID = uid
			rec.ContactType = models.ContactType(kind)
			rec.IsActive = !inactive
			return a.svc.Contacts.Add(ctx, &rec)
		})),
	}
	f := cmd.Flags()
	f.StringVarP(&c.Name, "name", "n", "", "contact name")
	f.StringVarP(&c.PhoneNumber, "phone", "p", "", "contact phone number")
	f.StringVarP(&c.Relationship, "relationship", "r", "", "relationship to the user")
	f.IntVar(&c.Priority, "priority", 0, "higher priorities are notified first")
	f.StringVar(&kind, "type", string(models.ContactFamily), "family|friend|colleague|emergency_service|other")
	f.BoolVar(&inactive, "inactive", false, "store the contact without notifying it")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func newContactListCommand(st *rootState) *cobra.Command {
	var active bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts by priority",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			if active {
				return a.svc.Contacts.ListActive(ctx, uid)
			}
			return a.svc.Contacts.ListByPriority(ctx, uid)
		})),
	}
	cmd.Flags().BoolVar(&active, "active", false, "only active contacts")
	return cmd
}

func newContactRemoveCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a contact",
		Args:  cobra.ExactArgs(1),
		RunE: st.runE(authed(func(ctx context.Context, a *App, _ int64, args []string) (any, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return map[string]int64{"removed": id}, a.svc.Contacts.Remove(ctx, id)
		})),
	}
}
