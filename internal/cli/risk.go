package cli

import (
	"context"

	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/spf13/cobra"
)

func newRiskCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{Use: "risk", Short: "Risk detection log"}
	cmd.AddCommand(newRiskLogCommand(st))
	return cmd
}

func newRiskLogCommand(st *rootState) *cobra.Command {
	var (
		level   string
		factors []string
		where   *pointFlags
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a risk assessment",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			at, err := where.point()
			if err != nil {
				return nil, err
			}
			return a.svc.Risks.Log(ctx, uid, at, models.RiskLevel(level), factors)
		})),
	}
	cmd.Flags().StringVar(&level, "level", string(models.RiskLow), "low|medium|high")
	cmd.Flags().StringSliceVar(&factors, "factor", nil, "contributing factor, repeatable")
	where = addPointFlags(cmd, "assessment")
	return cmd
}
