package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/services"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestRender_Golden(t *testing.T) {
	tests := []struct {
		name string
		res  services.Result
	}{
		{
			name: "render_success",
			res: services.Outcome(map[string]any{
				"id":       1,
				"name":     "Mom",
				"priority": 1,
			}, nil),
		},
		{
			name: "render_storage_failure",
			res:  services.Outcome(nil, fmt.Errorf("insert contacts: %w", common.ErrStorageUnavailable)),
		},
		{
			name: "render_empty_success",
			res:  services.Outcome(nil, nil),
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, render(&buf, tt.res))
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}
