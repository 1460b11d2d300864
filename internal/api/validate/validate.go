// Package validate holds pure request validation shared by the HTTP layer
// and the search orchestrator.
package validate

import (
	"fmt"

	"github.com/cafehopper/cafe-hopper/server/internal/hours"
	"github.com/cafehopper/cafe-hopper/server/internal/model"
)

// SearchRequest checks the request-level rules: at least one search
// field must be present, the sort strategy must be known, and a custom
// time must be well formed. All failures wrap model.ErrValidation and
// must be reported before any provider or store call is made.
func SearchRequest(req *model.SearchRequest) error {
	if req.Query == "" && req.Radius == 0 && req.Geolocation == nil && !req.OpenNow && len(req.Tags) == 0 {
		return fmt.Errorf("at least one of query, radius, geolocation, openNow or tags is required: %w", model.ErrValidation)
	}

	switch req.SortBy {
	case "", model.SortByDistance, model.SortByRelevance:
	default:
		return fmt.Errorf("sortBy must be %q or %q: %w", model.SortByDistance, model.SortByRelevance, model.ErrValidation)
	}

	if req.CustomTime != nil {
		if req.CustomTime.Day != nil {
			if d := *req.CustomTime.Day; d < 0 || d > 6 {
				return fmt.Errorf("customTime.day must be 0-6: %w", model.ErrValidation)
			}
		}
		if req.CustomTime.Time != "" {
			if _, err := hours.TimeToMinutes(req.CustomTime.Time); err != nil {
				return fmt.Errorf("customTime.time: %w", err)
			}
		}
	}

	if req.Rating < 0 || req.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5: %w", model.ErrValidation)
	}

	return nil
}

// PingRequest checks the review ping body.
func PingRequest(req *model.PingRequest) error {
	if req.CafeID == "" {
		return fmt.Errorf("cafeId is required: %w", model.ErrValidation)
	}
	if req.Rating < 0 || req.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5: %w", model.ErrValidation)
	}
	return nil
}
