package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store
// implementation. Implementations should provide a clean, isolated store
// and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Unique identifiers so the suite can run against a shared database.
	idA := "place-" + uuid.New().String()
	idB := "place-" + uuid.New().String()
	idC := "place-" + uuid.New().String()

	batch := []*model.Cafe{
		{ID: idA, Name: "Verve Coffee Roasters", Address: "1540 Pacific Ave", Rating: 0},
		{ID: idB, Name: "Cat & Cloud", Address: "3600 Portola Dr", Rating: 0},
	}
	if err := s.Cafes().Insert(ctx, batch); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Insert is idempotent: repeating the batch must neither fail nor
	// duplicate rows.
	if err := s.Cafes().Insert(ctx, batch); err != nil {
		t.Fatalf("Insert (repeat): %v", err)
	}
	got, err := s.Cafes().Query(ctx, store.CafeQuery{IDs: []string{idA, idB, idC}})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Query after double insert: want 2 cafes, got %d", len(got))
	}

	// Get round-trip and ErrNotFound.
	cafe, err := s.Cafes().Get(ctx, idA)
	if err != nil || cafe.Name != "Verve Coffee Roasters" {
		t.Fatalf("Get: cafe=%v err=%v", cafe, err)
	}
	if _, err := s.Cafes().Get(ctx, idC); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get missing: want ErrNotFound, got %v", err)
	}

	// Review aggregates are written back and visible to filtered queries.
	cafe.Rating = 4.5
	cafe.NumReviews = 2
	cafe.Tags = []string{"quiet", "wifi"}
	if err := s.Cafes().UpdateAggregates(ctx, cafe); err != nil {
		t.Fatalf("UpdateAggregates: %v", err)
	}

	got, err = s.Cafes().Query(ctx, store.CafeQuery{IDs: []string{idA, idB}, Tags: []string{"wifi"}})
	if err != nil {
		t.Fatalf("Query tags: %v", err)
	}
	if len(got) != 1 || got[0].ID != idA {
		t.Fatalf("Query tags: want [%s], got %v", idA, got)
	}

	got, err = s.Cafes().Query(ctx, store.CafeQuery{IDs: []string{idA, idB}, MinRating: 4.0})
	if err != nil {
		t.Fatalf("Query rating: %v", err)
	}
	if len(got) != 1 || got[0].ID != idA {
		t.Fatalf("Query rating: want [%s], got %v", idA, got)
	}

	// Tag containment requires every requested tag.
	got, err = s.Cafes().Query(ctx, store.CafeQuery{IDs: []string{idA, idB}, Tags: []string{"wifi", "outdoor"}})
	if err != nil {
		t.Fatalf("Query tags superset: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Query tags superset: want none, got %v", got)
	}

	// Empty identifier set never matches anything.
	got, err = s.Cafes().Query(ctx, store.CafeQuery{})
	if err != nil || len(got) != 0 {
		t.Fatalf("Query empty ids: got %v err=%v", got, err)
	}

	// Reviews.
	rv := &model.Review{ReviewID: uuid.New().String(), CafeID: idA, Rating: 5, Tags: []string{"quiet"}}
	if _, err := s.Reviews().Create(ctx, rv); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	if err := s.Cafes().UpdateAggregates(ctx, &model.Cafe{ID: idC}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateAggregates missing: want ErrNotFound, got %v", err)
	}
}
