package service

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/mathieu-neron/songrec/internal/model"
)

// Policy holds the ranking constants. DefaultPolicy matches the public API contract.
type Policy struct {
	// PopularScore is the score a recommendation must exceed to be in the popular tier.
	PopularScore int
	// PopularChance is the probability of drawing from the popular tier first.
	PopularChance float64
	// RemovalScore is the lowest score a recommendation survives a downvote with.
	RemovalScore int
	// RecentLimit bounds the recent listing.
	RecentLimit int
}

// DefaultPolicy returns the standard constants: popular above 10, 70/30 split,
// removal below -5, ten recent entries.
func DefaultPolicy() Policy {
	return Policy{
		PopularScore:  10,
		PopularChance: 0.7,
		RemovalScore:  -5,
		RecentLimit:   10,
	}
}

// Validate rejects constants the service cannot work with. Scores are stored
// as 32-bit integers, so PopularScore must leave both tiers a non-empty range.
func (p Policy) Validate() error {
	if p.PopularScore < math.MinInt32+1 || p.PopularScore > math.MaxInt32-1 {
		return fmt.Errorf("popular score must be within [%d, %d], got %d", math.MinInt32+1, math.MaxInt32-1, p.PopularScore)
	}
	if p.PopularChance < 0 || p.PopularChance > 1 {
		return fmt.Errorf("popular chance must be within [0, 1], got %v", p.PopularChance)
	}
	if p.RecentLimit <= 0 {
		return fmt.Errorf("recent limit must be positive, got %d", p.RecentLimit)
	}
	return nil
}

// IsPopular reports whether score belongs to the popular tier.
func (p Policy) IsPopular(score int) bool {
	return score > p.PopularScore
}

// Tier names used in logs and metrics.
const (
	TierPopular  = "popular"
	TierBaseline = "baseline"
)

// TierOf returns the tier name of score.
func (p Policy) TierOf(score int) string {
	if p.IsPopular(score) {
		return TierPopular
	}
	return TierBaseline
}

func (p Policy) popularRange() model.ScoreRange  { return model.ScoresAbove(p.PopularScore) }
func (p Policy) baselineRange() model.ScoreRange { return model.ScoresAtMost(p.PopularScore) }

// Rand is the random source used for selection. *rand.Rand from math/rand/v2 satisfies it,
// but is not safe for concurrent use; the default source is.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }
