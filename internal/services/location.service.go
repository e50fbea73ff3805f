package services

import (
	"context"
	"tidyops/internal/logger"
	. "tidyops/internal/models"
)

// LocationService resolves property geography. Property records live in an
// external system; until its distance matrix is integrated, distances are
// reported as zero and routing falls back to flat transit estimates.
type LocationService struct {
	log logger.Logger
}

func NewLocationService() *LocationService {
	return &LocationService{
		log: logger.New("locationService"),
	}
}

// PropertyZipCode looks up the zip code for a property. Returns "" when the
// property system has no answer, which assignment treats as unrestricted.
func (s *LocationService) PropertyZipCode(ctx context.Context, propertyID string) string {
	return ""
}

// RouteDistance estimates total travel distance across the ordered stops.
func (s *LocationService) RouteDistance(ctx context.Context, tasks []*CleaningTask) float64 {
	return 0
}
