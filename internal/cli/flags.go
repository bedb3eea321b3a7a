package cli

import (
	"fmt"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/geo"
	"github.com/spf13/cobra"
)

// pointFlags is an optional --lat/--lng pair.
type pointFlags struct {
	cmd      *cobra.Command
	lat, lng float64
}

func addPointFlags(cmd *cobra.Command, what string) *pointFlags {
	p := &pointFlags{cmd: cmd}
	cmd.Flags().Float64Var(&p.lat, "lat", 0, "latitude of the "+what)
	cmd.Flags().Float64Var(&p.lng, "lng", 0, "longitude of the "+what)
	return p
}

func (p *pointFlags) required() {
	_ = p.cmd.MarkFlagRequired("lat")
	_ = p.cmd.MarkFlagRequired("lng")
}

// point returns nil when neither flag was given.
func (p *pointFlags) point() (*geo.Point, error) {
	latSet, lngSet := p.cmd.Flags().Changed("lat"), p.cmd.Flags().Changed("lng")
	switch {
	case !latSet && !lngSet:
		return nil, nil
	case latSet != lngSet:
		return nil, fmt.Errorf("%w: --lat and --lng go together", common.ErrInvalidArgument)
	}
	pt := geo.Point{Lat: p.lat, Lng: p.lng}
	if err := pt.Validate(); err != nil {
		return nil, err
	}
	return &pt, nil
}

// coords splits a point into the optional pair records store.
func coords(p *geo.Point) (lat, lng *float64) {
	if p == nil {
		return nil, nil
	}
	la, ln := p.Lat, p.Lng
	return &la, &ln
}
