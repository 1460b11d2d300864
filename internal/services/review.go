package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cafehopper/cafe-hopper/server/internal/api/validate"
	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/store"
	"github.com/cafehopper/cafe-hopper/server/internal/summarizer"
)

// summaryRefreshEvery controls how often the AI summary is regenerated:
// every Nth review, so a busy cafe is not re-summarized on every ping.
const summaryRefreshEvery = 5

// ReviewService folds user-submitted reviews into rolling per-cafe
// aggregates (count, average rating, tags, image, summary).
type ReviewService struct {
	store store.Store
	sum   summarizer.Summarizer
	log   zerolog.Logger
}

// NewReviewService constructs the service. The summarizer may be nil, in
// which case summaries are never refreshed.
func NewReviewService(s store.Store, sum summarizer.Summarizer, log zerolog.Logger) *ReviewService {
	return &ReviewService{store: s, sum: sum, log: log}
}

// Ping records one review and returns the updated cafe. The review row is
// written first; aggregate recomputation then runs against the stored
// cafe, so a lost update costs one review, never a corrupted average.
func (s *ReviewService) Ping(ctx context.Context, req model.PingRequest) (*model.Cafe, error) {
	if err := validate.PingRequest(&req); err != nil {
		return nil, err
	}

	cafe, err := s.store.Cafes().Get(ctx, req.CafeID)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		ReviewID: uuid.New().String(),
		CafeID:   req.CafeID,
		Rating:   req.Rating,
		Tags:     req.Tags,
		Image:    req.Image,
	}
	if _, err := s.store.Reviews().Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	cafe.Rating = (cafe.Rating*float64(cafe.NumReviews) + req.Rating) / float64(cafe.NumReviews+1)
	cafe.NumReviews++
	cafe.Tags = mergeTags(cafe.Tags, req.Tags)
	if cafe.Image == "" && req.Image != "" {
		cafe.Image = req.Image
	}

	if s.sum != nil && cafe.NumReviews%summaryRefreshEvery == 0 {
		s.refreshSummary(ctx, cafe)
	}

	if err := s.store.Cafes().UpdateAggregates(ctx, cafe); err != nil {
		return nil, fmt.Errorf("update aggregates: %w", err)
	}
	return cafe, nil
}

// refreshSummary is best-effort: a summarizer failure keeps the previous
// summary and the ping still succeeds.
func (s *ReviewService) refreshSummary(ctx context.Context, cafe *model.Cafe) {
	digest := fmt.Sprintf("%s, %s. %d reviews, average rating %.1f. Known for: %s",
		cafe.Name, cafe.Address, cafe.NumReviews, cafe.Rating, strings.Join(cafe.Tags, ", "))

	text, err := s.sum.Summarize(ctx, digest)
	if err != nil {
		s.log.Warn().Err(err).Str("cafe_id", cafe.ID).Msg("summary refresh failed")
		return
	}
	if text != "" {
		cafe.Summary = text
	}
}

func mergeTags(have, add []string) []string {
	if len(add) == 0 {
		return have
	}
	seen := make(map[string]bool, len(have))
	out := have
	for _, t := range have {
		seen[t] = true
	}
	for _, t := range add {
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
