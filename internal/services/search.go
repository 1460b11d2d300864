package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/cafehopper/cafe-hopper/server/internal/api/validate"
	"github.com/cafehopper/cafe-hopper/server/internal/hours"
	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/places"
	"github.com/cafehopper/cafe-hopper/server/internal/store"
)

// defaultCallTimeout bounds each provider/store call inside a request. A
// timed-out call is a collaborator failure, never a retry.
const defaultCallTimeout = 10 * time.Second

// SearchService runs the search reconciliation pipeline: discover
// candidates at the provider, enrich them with details, filter by opening
// time, reconcile against the store by identifier, persist new cafes
// exactly once, and rank the merged result.
type SearchService struct {
	store       store.Store
	provider    places.Provider
	callTimeout time.Duration
	log         zerolog.Logger
}

func NewSearchService(s store.Store, p places.Provider, log zerolog.Logger) *SearchService {
	return &SearchService{store: s, provider: p, callTimeout: defaultCallTimeout, log: log}
}

// WithCallTimeout overrides the per-call timeout; zero or negative keeps
// the default.
func (s *SearchService) WithCallTimeout(d time.Duration) *SearchService {
	if d > 0 {
		s.callTimeout = d
	}
	return s
}

// Search executes one pass of the pipeline. Validation and integrity
// failures surface before any side effect; provider and store failures
// abort with no partial results. An empty result set with a nil error is
// the valid "no cafes match" outcome.
func (s *SearchService) Search(ctx context.Context, req model.SearchRequest) ([]model.Cafe, error) {
	if err := validate.SearchRequest(&req); err != nil {
		return nil, err
	}

	candidates, err := s.textSearch(ctx, req)
	if err != nil {
		return nil, err
	}

	// A candidate without an identifier is a provider contract violation
	// and fails the whole request. Checked up front so no detail fetch
	// happens on a batch that will be rejected.
	for _, c := range candidates {
		if c.PlaceID == "" {
			return nil, fmt.Errorf("place_id is required: %w", model.ErrIntegrity)
		}
	}
	candidates = dedupeCandidates(candidates)

	details, err := s.fetchDetails(ctx, candidates)
	if err != nil {
		return nil, err
	}

	if req.CustomTime != nil {
		details, err = hours.FilterByTime(details, req.CustomTime.Day, req.CustomTime.Time)
		if err != nil {
			return nil, err
		}
	}

	if len(details) == 0 {
		return []model.Cafe{}, nil
	}

	mapped := s.mapDetails(details)

	known, err := s.queryKnown(ctx, req, mapped)
	if err != nil {
		return nil, err
	}

	// Tags are store-only attributes: provider data never carries them,
	// so newly discovered cafes cannot satisfy a tag filter and must not
	// be appended.
	if len(req.Tags) > 0 {
		sortCafes(known, req)
		return known, nil
	}

	toPersist := subtractKnown(mapped, known)
	if len(toPersist) > 0 {
		if err := s.persist(ctx, toPersist); err != nil {
			return nil, fmt.Errorf("persist cafes: %w", err)
		}
	}

	merged := append(known, toPersist...)
	sortCafes(merged, req)
	return merged, nil
}

func (s *SearchService) textSearch(ctx context.Context, req model.SearchRequest) ([]places.Candidate, error) {
	cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	candidates, err := s.provider.TextSearch(cctx, places.SearchParams{
		Query:    req.Query,
		Location: req.Geolocation,
		Radius:   req.Radius,
		OpenNow:  req.OpenNow,
	})
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	return candidates, nil
}

// fetchDetails enriches candidates sequentially in discovery order, so the
// unsorted output order stays "provider order". Each detail is stamped
// with the identifier of the candidate that produced it; the details
// payload itself does not carry one.
func (s *SearchService) fetchDetails(ctx context.Context, candidates []places.Candidate) ([]places.Detail, error) {
	details := make([]places.Detail, 0, len(candidates))
	for _, c := range candidates {
		dctx, cancel := context.WithTimeout(ctx, s.callTimeout)
		d, err := s.provider.Details(dctx, c.PlaceID)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("place details %s: %w", c.PlaceID, err)
		}
		d.PlaceID = c.PlaceID
		details = append(details, *d)
	}
	return details, nil
}

// mapDetails converts records best-effort: a record that cannot be mapped
// is dropped, the batch continues.
func (s *SearchService) mapDetails(details []places.Detail) []model.Cafe {
	mapped := make([]model.Cafe, 0, len(details))
	for _, d := range details {
		cafe, err := mapToCafe(d)
		if err != nil {
			s.log.Debug().Err(err).Str("place_id", d.PlaceID).Msg("dropping unmappable place record")
			continue
		}
		mapped = append(mapped, *cafe)
	}
	return mapped
}

// queryKnown fetches already-stored cafes among the mapped identifiers,
// with the tag/rating predicates applied store-side, and restores provider
// order (drivers return rows in id order).
func (s *SearchService) queryKnown(ctx context.Context, req model.SearchRequest, mapped []model.Cafe) ([]model.Cafe, error) {
	ids := make([]string, 0, len(mapped))
	pos := make(map[string]int, len(mapped))
	for i, cafe := range mapped {
		ids = append(ids, cafe.ID)
		pos[cafe.ID] = i
	}

	qctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	rows, err := s.store.Cafes().Query(qctx, store.CafeQuery{IDs: ids, Tags: req.Tags, MinRating: req.Rating})
	if err != nil {
		return nil, fmt.Errorf("store query: %w", err)
	}

	known := make([]model.Cafe, 0, len(rows))
	for _, r := range rows {
		known = append(known, *r)
	}
	sort.SliceStable(known, func(i, j int) bool {
		return pos[known[i].ID] < pos[known[j].ID]
	})
	return known, nil
}

func (s *SearchService) persist(ctx context.Context, cafes []model.Cafe) error {
	batch := make([]*model.Cafe, 0, len(cafes))
	for i := range cafes {
		batch = append(batch, &cafes[i])
	}
	pctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.store.Cafes().Insert(pctx, batch)
}

// dedupeCandidates keeps the first candidate per identifier, preserving
// discovery order. Identifiers must be unique within one response, so a
// provider that repeats one must not cause duplicate fetches or rows.
func dedupeCandidates(candidates []places.Candidate) []places.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]places.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.PlaceID] {
			continue
		}
		seen[c.PlaceID] = true
		out = append(out, c)
	}
	return out
}

// subtractKnown returns the mapped cafes whose identifier is not in the
// store result set, preserving provider order.
func subtractKnown(mapped, known []model.Cafe) []model.Cafe {
	seen := make(map[string]bool, len(known))
	for _, c := range known {
		seen[c.ID] = true
	}
	out := make([]model.Cafe, 0, len(mapped))
	for _, c := range mapped {
		if !seen[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
