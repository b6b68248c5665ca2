package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mathieu-neron/songrec/internal/model"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const selectColumns = `id, name, youtube_link, score, created_at, version`

type RecommendationRepo struct {
	pool *pgxpool.Pool
}

func NewRecommendationRepo(pool *pgxpool.Pool) *RecommendationRepo {
	return &RecommendationRepo{pool: pool}
}

// Create inserts a new recommendation with a zero score.
// A unique name violation is reported as ErrDuplicateName.
func (r *RecommendationRepo) Create(ctx context.Context, name, youtubeLink string) (*model.Recommendation, error) {
	query := `
		INSERT INTO recommendations (name, youtube_link)
		VALUES ($1, $2)
		RETURNING ` + selectColumns

	rec, err := scanRecommendation(r.pool.QueryRow(ctx, query, name, youtubeLink))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("insert recommendation: %w", err)
	}
	return rec, nil
}

// FindByID returns a single recommendation by id.
func (r *RecommendationRepo) FindByID(ctx context.Context, id int64) (*model.Recommendation, error) {
	query := `SELECT ` + selectColumns + ` FROM recommendations WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FindByName returns the recommendation with the exact given name.
func (r *RecommendationRepo) FindByName(ctx context.Context, name string) (*model.Recommendation, error) {
	query := `SELECT ` + selectColumns + ` FROM recommendations WHERE name = $1`
	return r.findOne(ctx, query, name)
}

// FindAll returns recommendations newest first. A non-positive limit returns every row.
func (r *RecommendationRepo) FindAll(ctx context.Context, limit int) ([]model.Recommendation, error) {
	if limit <= 0 {
		return r.findMany(ctx, `SELECT `+selectColumns+` FROM recommendations ORDER BY id DESC`)
	}
	return r.findMany(ctx, `
		SELECT `+selectColumns+`
		FROM recommendations
		ORDER BY id DESC
		LIMIT $1`, limit)
}

// FindTop returns up to amount recommendations by score, oldest first on ties.
func (r *RecommendationRepo) FindTop(ctx context.Context, amount int) ([]model.Recommendation, error) {
	return r.findMany(ctx, `
		SELECT `+selectColumns+`
		FROM recommendations
		ORDER BY score DESC, id ASC
		LIMIT $1`, amount)
}

// FindByScoreRange returns every recommendation whose score lies in sr, oldest first.
func (r *RecommendationRepo) FindByScoreRange(ctx context.Context, sr model.ScoreRange) ([]model.Recommendation, error) {
	return r.findMany(ctx, `
		SELECT `+selectColumns+`
		FROM recommendations
		WHERE score BETWEEN $1 AND $2
		ORDER BY id ASC`, sr.Min, sr.Max)
}

// UpdateScore atomically adds delta to the score, bumps the version and
// returns the row as updated.
func (r *RecommendationRepo) UpdateScore(ctx context.Context, id int64, delta int) (*model.Recommendation, error) {
	query := `
		UPDATE recommendations SET score = score + $2, version = version + 1
		WHERE id = $1
		RETURNING ` + selectColumns
	return r.findOne(ctx, query, id, delta)
}

// Remove deletes a recommendation. Removing a missing id returns ErrNotFound.
func (r *RecommendationRepo) Remove(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recommendations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recommendation %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Truncate deletes every recommendation. Identity values keep increasing.
func (r *RecommendationRepo) Truncate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `TRUNCATE TABLE recommendations`); err != nil {
		return fmt.Errorf("truncate recommendations: %w", err)
	}
	return nil
}

func (r *RecommendationRepo) findOne(ctx context.Context, query string, args ...any) (*model.Recommendation, error) {
	rec, err := scanRecommendation(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *RecommendationRepo) findMany(ctx context.Context, query string, args ...any) ([]model.Recommendation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make([]model.Recommendation, 0)
	for rows.Next() {
		var rec model.Recommendation
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.YoutubeLink, &rec.Score, &rec.CreatedAt, &rec.Version); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanRecommendation(row pgx.Row) (*model.Recommendation, error) {
	var rec model.Recommendation
	if err := row.Scan(&rec.ID, &rec.Name, &rec.YoutubeLink, &rec.Score, &rec.CreatedAt, &rec.Version); err != nil {
		return nil, err
	}
	return &rec, nil
}
