package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
)

// detailsFieldMask restricts place-details payloads to the fields the
// mapper consumes. Keep in sync with Detail.
const detailsFieldMask = "opening_hours/weekday_text,opening_hours/periods,name,formatted_address,geometry,icon_mask_base_uri"

// GoogleClient calls the Google Places web service.
type GoogleClient struct {
	client *resty.Client
	apiKey string
}

// NewGoogleClient constructs a provider client. The API key must be
// non-empty; callers treat an empty key as a startup-fatal condition.
func NewGoogleClient(baseURL, apiKey string, timeout time.Duration) (*GoogleClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("places API key is empty")
	}

	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &GoogleClient{client: c, apiKey: apiKey}, nil
}

// TextSearch runs a provider text search constrained to the cafe category.
func (g *GoogleClient) TextSearch(ctx context.Context, p SearchParams) ([]Candidate, error) {
	location := DefaultCenter
	if p.Location != nil {
		location = fmt.Sprintf("%f, %f", p.Location.Lat, p.Location.Lng)
	}
	radius := p.Radius
	if radius <= 0 {
		radius = DefaultRadiusMeters
	}
	query := p.Query
	if query == "" {
		query = DefaultQuery
	}

	req := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":    query,
			"location": location,
			"radius":   fmt.Sprintf("%d", radius),
			"type":     "cafe",
			"key":      g.apiKey,
		})
	if p.OpenNow {
		req.SetQueryParam("opennow", "true")
	}

	resp, err := req.Get("/maps/api/place/textsearch/json")
	if err != nil {
		return nil, fmt.Errorf("places text search: %w", err)
	}
	return decodeSearch(resp)
}

// NearbySearch returns cafe candidates around a location without a query
// term.
func (g *GoogleClient) NearbySearch(ctx context.Context, loc model.Geolocation, radiusMeters int) ([]Candidate, error) {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"location": fmt.Sprintf("%f, %f", loc.Lat, loc.Lng),
			"radius":   fmt.Sprintf("%d", radiusMeters),
			"type":     "cafe",
			"key":      g.apiKey,
		}).
		Get("/maps/api/place/nearbysearch/json")
	if err != nil {
		return nil, fmt.Errorf("places nearby search: %w", err)
	}
	return decodeSearch(resp)
}

// Details fetches the extended record for one place identifier.
func (g *GoogleClient) Details(ctx context.Context, placeID string) (*Detail, error) {
	if placeID == "" {
		return nil, fmt.Errorf("place_id is required: %w", model.ErrIntegrity)
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"place_id": placeID,
			"fields":   detailsFieldMask,
			"key":      g.apiKey,
		}).
		Get("/maps/api/place/details/json")
	if err != nil {
		return nil, fmt.Errorf("place details: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("place details status %d: %s", resp.StatusCode(), resp.String())
	}

	var out detailsResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode details response: %w", err)
	}
	if out.Status != "OK" || out.Result == nil {
		return nil, fmt.Errorf("place details status %s: %s", out.Status, out.Error)
	}
	return out.Result, nil
}

// Photo fetches raw image bytes for a photo reference, capped to the small
// rendition used for cafe thumbnails.
func (g *GoogleClient) Photo(ctx context.Context, photoReference string) ([]byte, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"photoreference": photoReference,
			"maxheight":      "100",
			"maxwidth":       "100",
			"key":            g.apiKey,
		}).
		Get("/maps/api/place/photo")
	if err != nil {
		return nil, fmt.Errorf("place photo: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("place photo status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// HealthPing issues a minimal details call to verify the provider is
// reachable and the key is accepted. INVALID_REQUEST still proves
// reachability, so only transport errors count as failures.
func (g *GoogleClient) HealthPing(ctx context.Context) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		Get("/maps/api/place/details/json")
	if err != nil {
		return err
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("provider status %d", resp.StatusCode())
	}
	return nil
}

func decodeSearch(resp *resty.Response) ([]Candidate, error) {
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("places search status %d: %s", resp.StatusCode(), resp.String())
	}
	var out textSearchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	switch out.Status {
	case "OK", "ZERO_RESULTS":
		return out.Results, nil
	default:
		return nil, fmt.Errorf("places search status %s: %s", out.Status, out.Error)
	}
}
