// Package places talks to the external places-search provider.
package places

// TimePoint is one edge of an opening period. Time is a 4-digit 24-hour
// string as emitted by the provider ("0930"); Day is 0 (Sunday) through 6.
type TimePoint struct {
	Day  int    `json:"day"`
	Time string `json:"time"`
}

// Period is a weekly opening interval. Close is absent for venues the
// provider reports as always open.
type Period struct {
	Open  TimePoint  `json:"open"`
	Close *TimePoint `json:"close,omitempty"`
}

// OpeningHours carries the structured periods plus the human-readable
// per-day lines ("Monday: 9:00 AM – 5:00 PM").
type OpeningHours struct {
	Periods     []Period `json:"periods,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// Location is a provider coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry wraps the location of a place result.
type Geometry struct {
	Location Location `json:"location"`
}

// Candidate is a text-search result before detail enrichment. Only the
// provider identifier is load-bearing; a candidate without one is a
// provider contract violation.
type Candidate struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name,omitempty"`
}

// Detail is the raw provider detail record for a single place, restricted
// to the fields requested by the details field mask. PlaceID is not part of
// the provider's detail payload; the caller stamps it from the candidate
// that produced the fetch.
type Detail struct {
	PlaceID          string        `json:"place_id,omitempty"`
	Name             string        `json:"name,omitempty"`
	FormattedAddress string        `json:"formatted_address,omitempty"`
	Geometry         *Geometry     `json:"geometry,omitempty"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
	IconMaskBaseURI  string        `json:"icon_mask_base_uri,omitempty"`
}

// textSearchResponse is the provider's text/nearby search envelope.
type textSearchResponse struct {
	Results []Candidate `json:"results"`
	Status  string      `json:"status"`
	Error   string      `json:"error_message,omitempty"`
}

// detailsResponse is the provider's place-details envelope.
type detailsResponse struct {
	Result *Detail `json:"result"`
	Status string  `json:"status"`
	Error  string  `json:"error_message,omitempty"`
}
