package places

import (
	"context"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
)

// Search defaults applied when the request omits them. The center matches
// the product's launch market (Santa Cruz) until per-user defaults exist.
const (
	DefaultQuery        = "cafe"
	DefaultRadiusMeters = 5000
	DefaultCenter       = "36.974117, -122.030792"
)

// SearchParams normalizes a text-search call to the provider.
type SearchParams struct {
	Query    string
	Location *model.Geolocation
	Radius   int
	OpenNow  bool
}

// Provider is the external places-search collaborator. Implementations
// return model.ErrValidation-free errors only: any failure here is a
// collaborator failure.
type Provider interface {
	TextSearch(ctx context.Context, p SearchParams) ([]Candidate, error)
	NearbySearch(ctx context.Context, loc model.Geolocation, radiusMeters int) ([]Candidate, error)
	Details(ctx context.Context, placeID string) (*Detail, error)
	Photo(ctx context.Context, photoReference string) ([]byte, error)
}

// HealthPinger is optionally implemented by a Provider to expose a cheap
// liveness probe.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
