package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mathieu-neron/songrec/internal/model"
	"github.com/mathieu-neron/songrec/internal/repository"
)

// Upvote raises a recommendation's score by one and returns it.
func (s *RecommendationService) Upvote(ctx context.Context, id int64) (*model.Recommendation, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	rec, err := s.applyVote(ctx, id, 1)
	if err != nil {
		return nil, err
	}
	s.cacheRecommendation(ctx, rec)
	return rec, nil
}

// Downvote lowers a recommendation's score by one. When the new score falls
// below the removal threshold the recommendation is deleted and removed is
// true; rec is nil in that case.
func (s *RecommendationService) Downvote(ctx context.Context, id int64) (rec *model.Recommendation, removed bool, err error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, false, err
	}

	rec, err = s.applyVote(ctx, id, -1)
	if err != nil {
		return nil, false, err
	}

	// Decide from the score the atomic update returned, never from a re-read.
	if rec.Score >= s.policy.RemovalScore {
		s.cacheRecommendation(ctx, rec)
		return rec, false, nil
	}

	if err := s.store.Remove(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("remove recommendation %d: %w", id, err)
	}
	if err := s.cache.MarkRemoved(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("id", id).Msg("cache: mark recommendation removed failed")
	}
	s.logger.Info().
		Int64("id", id).
		Int("score", rec.Score).
		Msg("recommendation removed below score threshold")
	return nil, true, nil
}

func (s *RecommendationService) applyVote(ctx context.Context, id int64, delta int) (*model.Recommendation, error) {
	rec, err := s.store.UpdateScore(ctx, id, delta)
	if err != nil {
		// Removed by a concurrent downvote between lookup and update.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("update score of recommendation %d: %w", id, err)
	}
	return rec, nil
}

// cacheRecommendation stores rec unless the cache already holds a newer copy
// or a removal marker.
func (s *RecommendationService) cacheRecommendation(ctx context.Context, rec *model.Recommendation) {
	if err := s.cache.SetRecommendation(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Int64("id", rec.ID).Msg("cache: set recommendation failed")
	}
}
