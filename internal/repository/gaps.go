package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type GapRepo struct{ db *pgxpool.Pool }

func NewGapRepo(db *pgxpool.Pool) *GapRepo { return &GapRepo{db} }

const gapColumns = `id, user_id, topic, description, opportunity_type,
	suggested_angle, rationale, priority_score, urgency, status, created_at`

// ReplaceAllByUser swaps the user's gap set in one transaction, same
// semantics as InsightRepo.ReplaceAllByUser.
func (r *GapRepo) ReplaceAllByUser(ctx context.Context, userID string, gaps []model.ContentGap) ([]model.ContentGap, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM content_gaps WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}

	out := make([]model.ContentGap, 0, len(gaps))
	for _, g := range gaps {
		rationale, err := marshalJSON(g.Rationale)
		if err != nil {
			return nil, err
		}
		var saved model.ContentGap
		err = tx.QueryRow(ctx, `
			INSERT INTO content_gaps
				(user_id, topic, description, opportunity_type, suggested_angle,
				 rationale, priority_score, urgency, status)
			VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, 'open')
			RETURNING `+gapColumns,
			userID, g.Topic, g.Description, g.OpportunityType, g.SuggestedAngle,
			rationale, g.PriorityScore, g.Urgency,
		).Scan(&saved.ID, &saved.UserID, &saved.Topic, &saved.Description,
			&saved.OpportunityType, &saved.SuggestedAngle,
			jsonMapScanner{&saved.Rationale}, &saved.PriorityScore,
			&saved.Urgency, &saved.Status, &saved.CreatedAt)
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

func (r *GapRepo) List(ctx context.Context, userID string) ([]model.ContentGap, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+gapColumns+`
		FROM content_gaps
		WHERE user_id = $1 ORDER BY priority_score DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ContentGap
	for rows.Next() {
		var g model.ContentGap
		if err := rows.Scan(&g.ID, &g.UserID, &g.Topic, &g.Description,
			&g.OpportunityType, &g.SuggestedAngle,
			jsonMapScanner{&g.Rationale}, &g.PriorityScore,
			&g.Urgency, &g.Status, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
