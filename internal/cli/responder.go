package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/services"
	"github.com/spf13/cobra"
)

func newResponderCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{Use: "responder", Short: "Community responder directory"}
	cmd.AddCommand(
		newResponderAddCommand(st),
		newResponderListCommand(st),
		newResponderNearbyCommand(st),
		newResponderRateCommand(st),
	)
	return cmd
}

func newResponderAddCommand(st *rootState) *cobra.Command {
	var (
		r     models.CommunityResponder
		typ   string
		where *pointFlags
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a responder to the directory",
		Args:  cobra.NoArgs,
		RunE: st.runE(func(ctx context.Context, a *App, _ []string) (any, error) {
			at, err := where.point()
			if err != nil {
				return nil, err
			}
			rec := r
			rec.Type = models.ResponderType(typ)
			rec.Latitude, rec.Longitude = coords(at)
			return a.svc.Responders.Add(ctx, &rec)
		}),
	}
	f := cmd.Flags()
	f.StringVarP(&r.Name, "name", "n", "", "responder name")
	f.StringVarP(&r.PhoneNumber, "phone", "p", "", "phone number")
	f.StringVar(&typ, "type", string(models.ResponderVolunteer), "police|she_team|volunteer|transgender")
	f.BoolVar(&r.IsVerified, "verified", false, "identity has been verified")
	f.BoolVar(&r.IsAvailable, "available", true, "currently available")
	_ = cmd.MarkFlagRequired("name")
	where = addPointFlags(cmd, "responder")
	return cmd
}

func newResponderListCommand(st *rootState) *cobra.Command {
	var (
		typ                string
		verified, available bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List directory entries",
		Args:  cobra.NoArgs,
		RunE: st.runE(func(ctx context.Context, a *App, _ []string) (any, error) {
			f := services.ResponderFilter{VerifiedOnly: verified, AvailableOnly: available}
			if typ != "" {
				t := models.ResponderType(typ)
				f.Type = &t
			}
			return a.svc.Responders.List(ctx, f)
		}),
	}
	cmd.Flags().StringVar(&typ, "type", "", "only responders of this type")
	cmd.Flags().BoolVar(&verified, "verified", false, "only verified responders")
	cmd.Flags().BoolVar(&available, "available", false, "only available responders")
	return cmd
}

func newResponderNearbyCommand(st *rootState) *cobra.Command {
	var (
		radius float64
		where  *pointFlags
	)
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List responders within a radius, closest first",
		Args:  cobra.NoArgs,
		RunE: st.runE(func(ctx context.Context, a *App, _ []string) (any, error) {
			at, err := where.point()
			if err != nil {
				return nil, err
			}
			return a.svc.Responders.Nearby(ctx, at.Lat, at.Lng, radius)
		}),
	}
	cmd.Flags().Float64Var(&radius, "radius", 5, "search radius in km")
	where = addPointFlags(cmd, "search origin")
	where.required()
	return cmd
}

func newResponderRateCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <rating>",
		Short: "Rate a responder from 0 to 5",
		Args:  cobra.ExactArgs(2),
		RunE: st.runE(func(ctx context.Context, a *App, args []string) (any, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			rating, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: rating %q", common.ErrInvalidArgument, args[1])
			}
			return a.svc.Responders.Rate(ctx, id, rating)
		}),
	}
}
