package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/guardian/internal/geo"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
)

// RiskService appends to the risk log. Nothing reads it back.
type RiskService struct {
	e *store.Engine
}

func NewRiskService(e *store.Engine) *RiskService {
	return &RiskService{e: e}
}

func (s *RiskService) Log(ctx context.Context, userID int64, at *geo.Point, level models.RiskLevel, factors []string) (*models.RiskDetection, error) {
	r := &models.RiskDetection{UserID: userID, RiskLevel: level, RiskFactors: factors}
	if at != nil {
		lat, lng := at.Lat, at.Lng
		r.LocationLat, r.LocationLng = &lat, &lng
	}
	if r.RiskFactors == nil {
		r.RiskFactors = []string{}
	}
	if _, err := insertOwned(ctx, s.e, store.RiskDetections, userID, r); err != nil {
		return nil, fmt.Errorf("log risk: %w", err)
	}
	return r, nil
}
