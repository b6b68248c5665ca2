package model

import (
	"math"
	"time"
)

// Recommendation is a named video submission with a community score.
type Recommendation struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	YoutubeLink string    `json:"youtubeLink"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"-"`
	Version     int64     `json:"-"` // bumped by every score change
}

// RecommendationRequest is the API request body for creating a recommendation.
type RecommendationRequest struct {
	Name        string `json:"name" validate:"required,trimmed"`
	YoutubeLink string `json:"youtubeLink" validate:"required,trimmed,youtube"`
}

// RemovalResponse is returned by a downvote that culled the recommendation.
type RemovalResponse struct {
	ID      int64 `json:"id"`
	Removed bool  `json:"removed"`
}

// ScoreRange selects recommendations with Min <= score <= Max.
type ScoreRange struct {
	Min int
	Max int
}

// ScoresAbove matches every score strictly greater than s.
func ScoresAbove(s int) ScoreRange {
	return ScoreRange{Min: s + 1, Max: math.MaxInt32}
}

// ScoresAtMost matches every score lower than or equal to s.
func ScoresAtMost(s int) ScoreRange {
	return ScoreRange{Min: math.MinInt32, Max: s}
}

// Contains reports whether score falls inside the range.
func (r ScoreRange) Contains(score int) bool {
	return score >= r.Min && score <= r.Max
}
