package service

import (
	"context"
	"fmt"

	"github.com/mathieu-neron/songrec/internal/model"
)

// GetRandom picks one recommendation at random with a bias towards popular ones.
//
// With probability PopularChance the popular tier (score > PopularScore) is
// tried first, otherwise the baseline tier. An empty tier falls back to the
// other one. Members of a tier are equally likely. Fails with ErrNotFound when
// there are no recommendations at all.
func (s *RecommendationService) GetRandom(ctx context.Context) (*model.Recommendation, error) {
	first, second := s.policy.baselineRange(), s.policy.popularRange()
	if s.rnd.Float64() < s.policy.PopularChance {
		first, second = second, first
	}

	recs, err := s.store.FindByScoreRange(ctx, first)
	if err != nil {
		return nil, fmt.Errorf("find recommendations by score: %w", err)
	}
	if len(recs) == 0 {
		recs, err = s.store.FindByScoreRange(ctx, second)
		if err != nil {
			return nil, fmt.Errorf("find recommendations by score: %w", err)
		}
	}
	if len(recs) == 0 {
		return nil, notFoundError()
	}

	rec := recs[s.rnd.IntN(len(recs))]
	return &rec, nil
}
