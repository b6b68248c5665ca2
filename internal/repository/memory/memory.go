// Package memory provides an in-process recommendation store for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mathieu-neron/songrec/internal/model"
	"github.com/mathieu-neron/songrec/internal/repository"
)

// Repository keeps recommendations in a map guarded by a single lock.
// Ids come from a counter that is never rewound, so they are not reused.
type Repository struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]model.Recommendation
	now    func() time.Time
}

// New creates an empty memory repository.
func New() *Repository {
	return &Repository{data: map[int64]model.Recommendation{}, now: time.Now}
}

// Create stores a new recommendation with a zero score.
func (r *Repository) Create(_ context.Context, name, youtubeLink string) (*model.Recommendation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.data {
		if rec.Name == name {
			return nil, repository.ErrDuplicateName
		}
	}
	r.nextID++
	rec := model.Recommendation{
		ID:          r.nextID,
		Name:        name,
		YoutubeLink: youtubeLink,
		CreatedAt:   r.now(),
	}
	r.data[rec.ID] = rec
	return &rec, nil
}

// FindByID returns a copy of the recommendation with the given id.
func (r *Repository) FindByID(_ context.Context, id int64) (*model.Recommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

// FindByName returns a copy of the recommendation with the exact given name.
func (r *Repository) FindByName(_ context.Context, name string) (*model.Recommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.data {
		if rec.Name == name {
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

// FindAll returns recommendations newest first. A non-positive limit returns all of them.
func (r *Repository) FindAll(_ context.Context, limit int) ([]model.Recommendation, error) {
	recs := r.snapshot(func(model.Recommendation) bool { return true })
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID > recs[j].ID })
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// FindTop returns up to amount recommendations by score, oldest first on ties.
func (r *Repository) FindTop(_ context.Context, amount int) ([]model.Recommendation, error) {
	if amount <= 0 {
		return []model.Recommendation{}, nil
	}
	recs := r.snapshot(func(model.Recommendation) bool { return true })
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ID < recs[j].ID
	})
	if len(recs) > amount {
		recs = recs[:amount]
	}
	return recs, nil
}

// FindByScoreRange returns every recommendation whose score lies in sr, oldest first.
func (r *Repository) FindByScoreRange(_ context.Context, sr model.ScoreRange) ([]model.Recommendation, error) {
	recs := r.snapshot(func(rec model.Recommendation) bool { return sr.Contains(rec.Score) })
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}

// UpdateScore adds delta to the score, bumps the version and returns the record as updated.
func (r *Repository) UpdateScore(_ context.Context, id int64, delta int) (*model.Recommendation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec.Score += delta
	rec.Version++
	r.data[id] = rec
	return &rec, nil
}

// Remove deletes a recommendation.
func (r *Repository) Remove(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// Truncate deletes every recommendation. The id counter is kept.
func (r *Repository) Truncate(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = map[int64]model.Recommendation{}
	return nil
}

func (r *Repository) snapshot(keep func(model.Recommendation) bool) []model.Recommendation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]model.Recommendation, 0, len(r.data))
	for _, rec := range r.data {
		if keep(rec) {
			recs = append(recs, rec)
		}
	}
	return recs
}
