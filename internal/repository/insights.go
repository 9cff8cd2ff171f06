package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type InsightRepo struct{ db *pgxpool.Pool }

func NewInsightRepo(db *pgxpool.Pool) *InsightRepo { return &InsightRepo{db} }

const insightColumns = `id, user_id, insight_type, insight_text, data_points,
	confidence_score, recommendation, actionable, created_at`

// ReplaceAllByUser swaps the user's insight set in one transaction so
// readers never observe the empty window between delete and insert.
func (r *InsightRepo) ReplaceAllByUser(ctx context.Context, userID string, insights []model.PerformanceInsight) ([]model.PerformanceInsight, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM performance_insights WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}

	out := make([]model.PerformanceInsight, 0, len(insights))
	for _, in := range insights {
		dataPoints, err := marshalJSON(in.DataPoints)
		if err != nil {
			return nil, err
		}
		var saved model.PerformanceInsight
		err = tx.QueryRow(ctx, `
			INSERT INTO performance_insights
				(user_id, insight_type, insight_text, data_points,
				 confidence_score, recommendation, actionable)
			VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)
			RETURNING `+insightColumns,
			userID, in.InsightType, in.InsightText, dataPoints,
			in.ConfidenceScore, in.Recommendation, in.Actionable,
		).Scan(&saved.ID, &saved.UserID, &saved.InsightType, &saved.InsightText,
			jsonStringArrayScanner{&saved.DataPoints}, &saved.ConfidenceScore,
			&saved.Recommendation, &saved.Actionable, &saved.CreatedAt)
		if err != nil {
			return nil, mapDBError(err)
		}
		out = append(out, saved)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *InsightRepo) List(ctx context.Context, userID string) ([]model.PerformanceInsight, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+insightColumns+`
		FROM performance_insights
		WHERE user_id = $1 ORDER BY confidence_score DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PerformanceInsight
	for rows.Next() {
		var in model.PerformanceInsight
		if err := rows.Scan(&in.ID, &in.UserID, &in.InsightType, &in.InsightText,
			jsonStringArrayScanner{&in.DataPoints}, &in.ConfidenceScore,
			&in.Recommendation, &in.Actionable, &in.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
