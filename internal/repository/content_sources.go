package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type ContentSourceRepo struct{ db *pgxpool.Pool }

func NewContentSourceRepo(db *pgxpool.Pool) *ContentSourceRepo { return &ContentSourceRepo{db} }

const contentSourceColumns = `id, user_id, type, url, title, transcript,
	word_count, duration_minutes, processed_at, created_at`

func scanContentSource(row interface{ Scan(...any) error }) (*model.ContentSource, error) {
	var s model.ContentSource
	err := row.Scan(&s.ID, &s.UserID, &s.Type, &s.URL, &s.Title, &s.Transcript,
		&s.WordCount, &s.DurationMinutes, &s.ProcessedAt, &s.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &s, nil
}

func (r *ContentSourceRepo) Create(ctx context.Context, s *model.ContentSource) (*model.ContentSource, error) {
	return scanContentSource(r.db.QueryRow(ctx, `
		INSERT INTO content_sources
			(user_id, type, url, title, transcript, word_count, duration_minutes, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING `+contentSourceColumns,
		s.UserID, s.Type, s.URL, s.Title, s.Transcript, s.WordCount, s.DurationMinutes))
}

func (r *ContentSourceRepo) Get(ctx context.Context, id, userID string) (*model.ContentSource, error) {
	return scanContentSource(r.db.QueryRow(ctx, `
		SELECT `+contentSourceColumns+`
		FROM content_sources WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *ContentSourceRepo) List(ctx context.Context, userID string) ([]model.ContentSource, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+contentSourceColumns+`
		FROM content_sources WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []model.ContentSource
	for rows.Next() {
		var s model.ContentSource
		if err := rows.Scan(&s.ID, &s.UserID, &s.Type, &s.URL, &s.Title, &s.Transcript,
			&s.WordCount, &s.DurationMinutes, &s.ProcessedAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}
