package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mathieu-neron/songrec/internal/model"
	"github.com/mathieu-neron/songrec/internal/repository"
)

//go:generate mockgen -source=recommendation_svc.go -destination=mocks/mock_store.go -package=mocks

// RecommendationStore is the persistence surface the service depends on.
// Lookups of missing rows return repository.ErrNotFound; UpdateScore must
// apply the delta atomically and return the row as updated.
type RecommendationStore interface {
	Create(ctx context.Context, name, youtubeLink string) (*model.Recommendation, error)
	FindByID(ctx context.Context, id int64) (*model.Recommendation, error)
	FindByName(ctx context.Context, name string) (*model.Recommendation, error)
	FindAll(ctx context.Context, limit int) ([]model.Recommendation, error)
	FindTop(ctx context.Context, amount int) ([]model.Recommendation, error)
	FindByScoreRange(ctx context.Context, sr model.ScoreRange) ([]model.Recommendation, error)
	UpdateScore(ctx context.Context, id int64, delta int) (*model.Recommendation, error)
	Remove(ctx context.Context, id int64) error
	Truncate(ctx context.Context) error
}

// RecommendationService owns the ranking and voting rules. It keeps no state
// between calls; concurrent callers only meet at the store.
type RecommendationService struct {
	store  RecommendationStore
	cache  *CacheService
	policy Policy
	rnd    Rand
	logger zerolog.Logger
}

// Option customizes a RecommendationService.
type Option func(*RecommendationService)

// WithRand replaces the random source used by GetRandom.
func WithRand(r Rand) Option {
	return func(s *RecommendationService) { s.rnd = r }
}

// NewRecommendationService creates the service. cache may be nil.
func NewRecommendationService(store RecommendationStore, cache *CacheService, policy Policy, logger zerolog.Logger, opts ...Option) *RecommendationService {
	s := &RecommendationService{
		store:  store,
		cache:  cache,
		policy: policy,
		rnd:    globalRand{},
		logger: logger.With().Str("component", "recommendation-service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the constants the service was built with.
func (s *RecommendationService) Policy() Policy {
	return s.policy
}

// Insert creates a recommendation with a zero score. A name already in use
// fails with a conflict and nothing is written.
func (s *RecommendationService) Insert(ctx context.Context, name, youtubeLink string) (*model.Recommendation, error) {
	_, err := s.store.FindByName(ctx, name)
	switch {
	case err == nil:
		return nil, conflictError(duplicateNameMessage)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("find recommendation by name: %w", err)
	}

	// The check above and this write are not atomic; the store's unique
	// constraint decides between concurrent inserts of the same name.
	rec, err := s.store.Create(ctx, name, youtubeLink)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			s.logger.Debug().Str("name", name).Msg("insert lost race on unique name")
			return nil, conflictError(duplicateNameMessage)
		}
		return nil, fmt.Errorf("create recommendation: %w", err)
	}
	return rec, nil
}

// GetByID returns a recommendation, served from the cache when possible.
func (s *RecommendationService) GetByID(ctx context.Context, id int64) (*model.Recommendation, error) {
	if rec, ok := s.cache.GetRecommendation(ctx, id); ok {
		if rec == nil {
			return nil, notFoundError()
		}
		return rec, nil
	}

	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// A vote or removal landing after the read above wins over this fill.
	s.cacheRecommendation(ctx, rec)
	return rec, nil
}

// ListRecent returns the most recently registered recommendations, newest first.
func (s *RecommendationService) ListRecent(ctx context.Context) ([]model.Recommendation, error) {
	recs, err := s.store.FindAll(ctx, s.policy.RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent recommendations: %w", err)
	}
	return nonNil(recs), nil
}

// GetTop returns up to amount recommendations ordered by score, highest first.
func (s *RecommendationService) GetTop(ctx context.Context, amount int) ([]model.Recommendation, error) {
	if amount <= 0 {
		return []model.Recommendation{}, nil
	}
	recs, err := s.store.FindTop(ctx, amount)
	if err != nil {
		return nil, fmt.Errorf("list top recommendations: %w", err)
	}
	return nonNil(recs), nil
}

// Reset removes every recommendation and drops cached copies.
func (s *RecommendationService) Reset(ctx context.Context) error {
	if err := s.store.Truncate(ctx); err != nil {
		return fmt.Errorf("reset recommendations: %w", err)
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("cache: invalidate all failed")
	}
	s.logger.Info().Msg("recommendations reset")
	return nil
}

// find looks a recommendation up in the store, bypassing the cache.
func (s *RecommendationService) find(ctx context.Context, id int64) (*model.Recommendation, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("find recommendation %d: %w", id, err)
	}
	return rec, nil
}

func nonNil(recs []model.Recommendation) []model.Recommendation {
	if recs == nil {
		return []model.Recommendation{}
	}
	return recs
}
