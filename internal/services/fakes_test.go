package services

import (
	"context"
	"fmt"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/places"
	"github.com/cafehopper/cafe-hopper/server/internal/store"
)

// fakeProvider is an in-memory places.Provider that counts calls.
type fakeProvider struct {
	candidates []places.Candidate
	details    map[string]*places.Detail

	textSearchCalls int
	detailsCalls    int

	textSearchErr error
	detailsErr    error
}

func (f *fakeProvider) TextSearch(ctx context.Context, p places.SearchParams) ([]places.Candidate, error) {
	f.textSearchCalls++
	if f.textSearchErr != nil {
		return nil, f.textSearchErr
	}
	return f.candidates, nil
}

func (f *fakeProvider) NearbySearch(ctx context.Context, loc model.Geolocation, radiusMeters int) ([]places.Candidate, error) {
	return f.candidates, nil
}

func (f *fakeProvider) Details(ctx context.Context, placeID string) (*places.Detail, error) {
	f.detailsCalls++
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	d, ok := f.details[placeID]
	if !ok {
		return nil, fmt.Errorf("no detail fixture for %s", placeID)
	}
	cp := *d
	return &cp, nil
}

func (f *fakeProvider) Photo(ctx context.Context, photoReference string) ([]byte, error) {
	return []byte("jpeg"), nil
}

// fakeStore is an in-memory store.Store that counts inserts per id.
type fakeStore struct {
	cafes      map[string]*model.Cafe
	reviews    []*model.Review
	insertHits map[string]int

	queryErr  error
	insertErr error
}

func newFakeStore(seed ...*model.Cafe) *fakeStore {
	s := &fakeStore{cafes: map[string]*model.Cafe{}, insertHits: map[string]int{}}
	for _, c := range seed {
		cp := *c
		s.cafes[c.ID] = &cp
	}
	return s
}

func (f *fakeStore) Cafes() store.Cafes     { return f }
func (f *fakeStore) Reviews() store.Reviews { return f }

func (f *fakeStore) Query(ctx context.Context, q store.CafeQuery) ([]*model.Cafe, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := []*model.Cafe{}
	for _, id := range q.IDs {
		c, ok := f.cafes[id]
		if !ok {
			continue
		}
		if q.MinRating > 0 && c.Rating < q.MinRating {
			continue
		}
		if !containsAllTags(c.Tags, q.Tags) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) Insert(ctx context.Context, cafes []*model.Cafe) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, c := range cafes {
		f.insertHits[c.ID]++
		if _, ok := f.cafes[c.ID]; ok {
			continue
		}
		cp := *c
		f.cafes[c.ID] = &cp
	}
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*model.Cafe, error) {
	c, ok := f.cafes[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) UpdateAggregates(ctx context.Context, c *model.Cafe) error {
	if _, ok := f.cafes[c.ID]; !ok {
		return model.ErrNotFound
	}
	cp := *c
	f.cafes[c.ID] = &cp
	return nil
}

func (f *fakeStore) Create(ctx context.Context, r *model.Review) (*model.Review, error) {
	f.reviews = append(f.reviews, r)
	return r, nil
}

func containsAllTags(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := map[string]bool{}
	for _, t := range have {
		set[t] = true
	}
	for _, t := range want {
		if !set[t] {
			return false
		}
	}
	return true
}
