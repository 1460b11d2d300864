package services

import (
	"sort"
	"strings"

	"github.com/cafehopper/cafe-hopper/server/internal/geo"
	"github.com/cafehopper/cafe-hopper/server/internal/model"
)

// sortCafes applies the caller-selected ranking strategy in place. It is
// the sole ordering point of the pipeline: callers must not pre-sort.
// Without a strategy the provider/concatenation order is preserved.
func sortCafes(cafes []model.Cafe, req model.SearchRequest) {
	switch req.SortBy {
	case model.SortByDistance:
		if req.Geolocation == nil {
			return
		}
		sortByDistance(cafes, *req.Geolocation)
	case model.SortByRelevance:
		sortByRelevance(cafes, req.Query)
	}
}

// sortByDistance orders ascending by great-circle distance from the
// caller's location. Stable, so equidistant cafes keep their input order.
func sortByDistance(cafes []model.Cafe, from model.Geolocation) {
	sort.SliceStable(cafes, func(i, j int) bool {
		di := geo.DistanceKm(from, model.Geolocation{Lat: cafes[i].Latitude, Lng: cafes[i].Longitude})
		dj := geo.DistanceKm(from, model.Geolocation{Lat: cafes[j].Latitude, Lng: cafes[j].Longitude})
		return di < dj
	})
}

// sortByRelevance moves cafes whose name contains the query (case
// insensitive) ahead of those that do not, preserving relative order
// otherwise. The empty query matches every name, so the sort degrades to
// a no-op rather than an error.
func sortByRelevance(cafes []model.Cafe, query string) {
	q := strings.ToLower(query)
	sort.SliceStable(cafes, func(i, j int) bool {
		mi := strings.Contains(strings.ToLower(cafes[i].Name), q)
		mj := strings.Contains(strings.ToLower(cafes[j].Name), q)
		return mi && !mj
	})
}
