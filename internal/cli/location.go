package cli

import (
	"context"

	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/spf13/cobra"
)

func newLocationCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{Use: "location", Short: "Record and inspect location history"}
	cmd.AddCommand(newLocationRecordCommand(st), newLocationHistoryCommand(st))
	return cmd
}

func newLocationRecordCommand(st *rootState) *cobra.Command {
	var (
		accuracy float64
		where    *pointFlags
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Append the current position",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			at, err := where.point()
			if err != nil {
				return nil, err
			}
			return a.svc.Locations.Record(ctx, uid, at.Lat, at.Lng, accuracy)
		})),
	}
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "accuracy in meters")
	where = addPointFlags(cmd, "position")
	where.required()
	return cmd
}

func newLocationHistoryCommand(st *rootState) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded positions, newest first",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			return a.svc.Locations.History(ctx, uid, limit)
		})),
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries, 0 for all")
	return cmd
}

func newZoneCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{Use: "zone", Short: "Manage safe zones"}
	cmd.AddCommand(newZoneAddCommand(st), newZoneListCommand(st), newZoneCheckCommand(st), newZoneRemoveCommand(st))
	return cmd
}

func newZoneAddCommand(st *rootState) *cobra.Command {
	var (
		name     string
		radius   float64
		inactive bool
		where    *pointFlags
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a circular safe zone",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			at, err := where.point()
			if err != nil {
				return nil, err
			}
			return a.svc.Zones.Add(ctx, &models.SafeZone{
				UserID:       uid,
				Name:         name,
				Latitude:     at.Lat,
				Longitude:    at.Lng,
				RadiusMeters: radius,
				IsActive:     !inactive,
			})
		})),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "zone name")
	cmd.Flags().Float64Var(&radius, "radius", 100, "radius in meters")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "store the zone disabled")
	_ = cmd.MarkFlagRequired("name")
	where = addPointFlags(cmd, "zone center")
	where.required()
	return cmd
}

func newZoneListCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List safe zones",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			return a.svc.Zones.List(ctx, uid)
		})),
	}
}

type zoneCheck struct {
	Inside bool             `json:"inside"`
	Zone   *models.SafeZone `json:"zone,omitempty"`
}

func newZoneCheckCommand(st *rootState) *cobra.Command {
	var where *pointFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Tell whether a point lies in one of the safe zones",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			at, err := where.point()
			if err != nil {
				return nil, err
			}
			z, ok, err := a.svc.Zones.Contains(ctx, uid, *at)
			if err != nil {
				return nil, err
			}
			return zoneCheck{Inside: ok, Zone: z}, nil
		})),
	}
	where = addPointFlags(cmd, "point")
	where.required()
	return cmd
}

func newZoneRemoveCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a safe zone",
		Args:  cobra.ExactArgs(1),
		RunE: st.runE(authed(func(ctx context.Context, a *App, _ int64, args []string) (any, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return map[string]int64{"removed": id}, a.svc.Zones.Remove(ctx, id)
		})),
	}
}
