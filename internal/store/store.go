package store

import (
	"context"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Cafes() Cafes
	Reviews() Reviews
}

// CafeQuery restricts a cafe lookup to an identifier set with optional
// attribute predicates. Tags is a containment filter (the row must carry
// every requested tag); MinRating is inclusive.
type CafeQuery struct {
	IDs       []string
	Tags      []string
	MinRating float64
}

type Cafes interface {
	// Query returns the cafes matching all predicates, restricted to the
	// given identifier set. An empty IDs slice yields an empty result.
	Query(ctx context.Context, q CafeQuery) ([]*model.Cafe, error)

	// Insert persists cafes idempotently with respect to their
	// identifiers: rows that already exist are left untouched and do not
	// fail the batch.
	Insert(ctx context.Context, cafes []*model.Cafe) error

	// Get returns a cafe by identifier or model.ErrNotFound.
	Get(ctx context.Context, id string) (*model.Cafe, error)

	// UpdateAggregates writes the review-derived fields (rating,
	// num_reviews, tags, image, summary) of an existing cafe.
	UpdateAggregates(ctx context.Context, c *model.Cafe) error
}

type Reviews interface {
	Create(ctx context.Context, r *model.Review) (*model.Review, error)
}
