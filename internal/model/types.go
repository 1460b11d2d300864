package model

import (
	"encoding/json"
	"fmt"
)

// Geolocation is a WGS84 point in decimal degrees.
type Geolocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UnmarshalJSON rejects geolocation objects missing either coordinate. A
// partial point is a malformed request, not a point at 0.
func (g *Geolocation) UnmarshalJSON(b []byte) error {
	var raw struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Lat == nil || raw.Lng == nil {
		return fmt.Errorf("geolocation requires both lat and lng")
	}
	g.Lat = *raw.Lat
	g.Lng = *raw.Lng
	return nil
}

// Cafe is the canonical persisted entity. ID is the provider-assigned place
// identifier and is never regenerated; names and addresses may collide
// across cafes, ids may not.
type Cafe struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Hours      string   `json:"hours"`
	Tags       []string `json:"tags"`
	Rating     float64  `json:"rating"`
	NumReviews int      `json:"num_reviews"`
	Image      string   `json:"image"`
	Summary    string   `json:"summary"`
}

// CustomTime restricts search results to venues open at a given instant.
// Day is 0 (Sunday) through 6; Time is a 4-digit 24-hour string ("HHMM").
type CustomTime struct {
	Day  *int   `json:"day,omitempty"`
	Time string `json:"time,omitempty"`
}

// SearchRequest is the body of POST /cafes/search. At least one of Query,
// Radius, Geolocation, OpenNow or Tags must be set.
type SearchRequest struct {
	Query       string       `json:"query,omitempty"`
	Radius      int          `json:"radius,omitempty"`
	Geolocation *Geolocation `json:"geolocation,omitempty"`
	OpenNow     bool         `json:"openNow,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	SortBy      string       `json:"sortBy,omitempty"`
	CustomTime  *CustomTime  `json:"customTime,omitempty"`
	Rating      float64      `json:"rating,omitempty"`
}

// Sort strategies accepted in SearchRequest.SortBy.
const (
	SortByDistance  = "distance"
	SortByRelevance = "relevance"
)

// SearchResponse is the body of a search result. Error is empty on success;
// when it is set, Cafes is always empty (no partial results accompany an
// error).
type SearchResponse struct {
	Cafes []Cafe `json:"cafes"`
	Error string `json:"error"`
}

// Review is a single user-submitted rating for a cafe.
type Review struct {
	ReviewID string   `json:"reviewId"`
	CafeID   string   `json:"cafeId"`
	Rating   float64  `json:"rating"`
	Tags     []string `json:"tags,omitempty"`
	Image    string   `json:"image,omitempty"`
}

// PingRequest is the body of PUT /cafes/ping.
type PingRequest struct {
	CafeID string   `json:"cafeId"`
	Rating float64  `json:"rating"`
	Tags   []string `json:"tags,omitempty"`
	Image  string   `json:"image,omitempty"`
}
