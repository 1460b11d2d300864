package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/places"
)

// noAddressFound is the sentinel stored when the provider omits an
// address.
const noAddressFound = "No address found"

// Missing coordinates collapse to 0,0. That is a real point in the ocean,
// not "unknown"; the constants isolate the policy so it can be revisited
// without hunting call sites.
const (
	defaultLatitude  = 0.0
	defaultLongitude = 0.0
)

// mapToCafe converts a raw provider detail record into a canonical Cafe.
// A record without a name fails with model.ErrMapping; callers drop that
// record and keep going. Review-derived fields start empty.
func mapToCafe(raw places.Detail) (*model.Cafe, error) {
	if raw.Name == "" {
		return nil, fmt.Errorf("name is required: %w", model.ErrMapping)
	}

	cafe := &model.Cafe{
		ID:         raw.PlaceID,
		Name:       raw.Name,
		Address:    noAddressFound,
		Latitude:   defaultLatitude,
		Longitude:  defaultLongitude,
		Tags:       []string{},
		Rating:     0,
		NumReviews: 0,
	}
	if raw.FormattedAddress != "" {
		cafe.Address = raw.FormattedAddress
	}
	if raw.Geometry != nil {
		cafe.Latitude = raw.Geometry.Location.Lat
		cafe.Longitude = raw.Geometry.Location.Lng
	}
	if raw.OpeningHours != nil {
		cafe.Hours = joinWeekdayText(raw.OpeningHours.WeekdayText)
	}
	return cafe, nil
}

// joinWeekdayText joins the per-day opening lines with newlines and strips
// every whitespace variant inside each line. Providers mix ordinary
// spaces, NBSP and thin spaces in the same payload; stripping them all
// keeps stored hours byte-comparable.
func joinWeekdayText(lines []string) string {
	stripped := make([]string, len(lines))
	for i, line := range lines {
		stripped[i] = strings.Map(func(r rune) rune {
			if r != '\n' && unicode.IsSpace(r) {
				return -1
			}
			return r
		}, line)
	}
	return strings.Join(stripped, "\n")
}
