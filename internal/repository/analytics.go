package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type AnalyticsRepo struct{ db *pgxpool.Pool }

func NewAnalyticsRepo(db *pgxpool.Pool) *AnalyticsRepo { return &AnalyticsRepo{db} }

const analyticsColumns = `id, user_id, newsletter_id, title, sent_count,
	delivered_count, open_count, click_count, unsubscribe_count, bounce_count,
	open_rate, click_rate, sent_at, created_at`

func scanAnalytics(row interface{ Scan(...any) error }) (*model.NewsletterAnalytics, error) {
	var a model.NewsletterAnalytics
	err := row.Scan(&a.ID, &a.UserID, &a.NewsletterID, &a.Title, &a.SentCount,
		&a.DeliveredCount, &a.OpenCount, &a.ClickCount, &a.UnsubscribeCount,
		&a.BounceCount, &a.OpenRate, &a.ClickRate, &a.SentAt, &a.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &a, nil
}

func (r *AnalyticsRepo) Create(ctx context.Context, a *model.NewsletterAnalytics) (*model.NewsletterAnalytics, error) {
	return scanAnalytics(r.db.QueryRow(ctx, `
		INSERT INTO newsletter_analytics
			(user_id, newsletter_id, title, sent_count, delivered_count,
			 open_count, click_count, unsubscribe_count, bounce_count,
			 open_rate, click_rate, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+analyticsColumns,
		a.UserID, a.NewsletterID, a.Title, a.SentCount, a.DeliveredCount,
		a.OpenCount, a.ClickCount, a.UnsubscribeCount, a.BounceCount,
		a.OpenRate, a.ClickRate, a.SentAt))
}

func (r *AnalyticsRepo) List(ctx context.Context, userID string, limit int) ([]model.NewsletterAnalytics, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+analyticsColumns+`
		FROM newsletter_analytics
		WHERE user_id = $1 ORDER BY sent_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.NewsletterAnalytics
	for rows.Next() {
		var a model.NewsletterAnalytics
		if err := rows.Scan(&a.ID, &a.UserID, &a.NewsletterID, &a.Title, &a.SentCount,
			&a.DeliveredCount, &a.OpenCount, &a.ClickCount, &a.UnsubscribeCount,
			&a.BounceCount, &a.OpenRate, &a.ClickRate, &a.SentAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)::int FROM newsletter_analytics WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
