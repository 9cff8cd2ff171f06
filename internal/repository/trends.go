package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type TrendRepo struct{ db *pgxpool.Pool }

func NewTrendRepo(db *pgxpool.Pool) *TrendRepo { return &TrendRepo{db} }

const trendColumns = `id, topic, source, search_volume, growth_rate, category,
	relevance_score, expires_at, created_at`

// ListFresh returns unexpired trends created after the cutoff.
func (r *TrendRepo) ListFresh(ctx context.Context, since time.Time, limit int) ([]model.TrendingTopic, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+trendColumns+`
		FROM trending_topics
		WHERE created_at > $1 AND expires_at > NOW()
		ORDER BY growth_rate DESC
		LIMIT $2`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TrendingTopic
	for rows.Next() {
		var t model.TrendingTopic
		if err := rows.Scan(&t.ID, &t.Topic, &t.Source, &t.SearchVolume,
			&t.GrowthRate, &t.Category, &t.RelevanceScore, &t.ExpiresAt,
			&t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Refresh drops expired rows and inserts the fresh batch.
func (r *TrendRepo) Refresh(ctx context.Context, trends []model.TrendingTopic) ([]model.TrendingTopic, error) {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM trending_topics WHERE expires_at < NOW()`); err != nil {
		return nil, err
	}

	out := make([]model.TrendingTopic, 0, len(trends))
	for _, t := range trends {
		var saved model.TrendingTopic
		err := r.db.QueryRow(ctx, `
			INSERT INTO trending_topics
				(topic, source, search_volume, growth_rate, category,
				 relevance_score, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+trendColumns,
			t.Topic, t.Source, t.SearchVolume, t.GrowthRate, t.Category,
			t.RelevanceScore, t.ExpiresAt,
		).Scan(&saved.ID, &saved.Topic, &saved.Source, &saved.SearchVolume,
			&saved.GrowthRate, &saved.Category, &saved.RelevanceScore,
			&saved.ExpiresAt, &saved.CreatedAt)
		if err != nil {
			return nil, mapDBError(err)
		}
		out = append(out, saved)
	}
	return out, nil
}
