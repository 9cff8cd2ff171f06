package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type IdeaRepo struct{ db *pgxpool.Pool }

func NewIdeaRepo(db *pgxpool.Pool) *IdeaRepo { return &IdeaRepo{db} }

const ideaColumns = `id, user_id, topic, suggested_headline, angle, outline,
	category, difficulty, urgency, priority_score, rationale, status, created_at`

func (r *IdeaRepo) CreateBatch(ctx context.Context, userID string, ideas []model.ContentIdea) ([]model.ContentIdea, error) {
	out := make([]model.ContentIdea, 0, len(ideas))
	for _, idea := range ideas {
		rationale, err := marshalJSON(idea.Rationale)
		if err != nil {
			return nil, err
		}
		var saved model.ContentIdea
		err = r.db.QueryRow(ctx, `
			INSERT INTO content_ideas
				(user_id, topic, suggested_headline, angle, outline, category,
				 difficulty, urgency, priority_score, rationale, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, 'suggested')
			RETURNING `+ideaColumns,
			userID, idea.Topic, idea.SuggestedHeadline, idea.Angle, idea.Outline,
			idea.Category, idea.Difficulty, idea.Urgency, idea.PriorityScore,
			rationale,
		).Scan(&saved.ID, &saved.UserID, &saved.Topic, &saved.SuggestedHeadline,
			&saved.Angle, &saved.Outline, &saved.Category, &saved.Difficulty,
			&saved.Urgency, &saved.PriorityScore, jsonMapScanner{&saved.Rationale},
			&saved.Status, &saved.CreatedAt)
		if err != nil {
			return nil, mapDBError(err)
		}
		out = append(out, saved)
	}
	return out, nil
}

func (r *IdeaRepo) List(ctx context.Context, userID string, status *string) ([]model.ContentIdea, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+ideaColumns+`
		FROM content_ideas
		WHERE user_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY priority_score DESC, created_at DESC`, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ContentIdea
	for rows.Next() {
		var idea model.ContentIdea
		if err := rows.Scan(&idea.ID, &idea.UserID, &idea.Topic, &idea.SuggestedHeadline,
			&idea.Angle, &idea.Outline, &idea.Category, &idea.Difficulty,
			&idea.Urgency, &idea.PriorityScore, jsonMapScanner{&idea.Rationale},
			&idea.Status, &idea.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, idea)
	}
	return out, rows.Err()
}

func (r *IdeaRepo) UpdateStatus(ctx context.Context, id, userID, status string) (*model.ContentIdea, error) {
	var saved model.ContentIdea
	err := r.db.QueryRow(ctx, `
		UPDATE content_ideas SET status = $1
		WHERE id = $2 AND user_id = $3
		RETURNING `+ideaColumns, status, id, userID,
	).Scan(&saved.ID, &saved.UserID, &saved.Topic, &saved.SuggestedHeadline,
		&saved.Angle, &saved.Outline, &saved.Category, &saved.Difficulty,
		&saved.Urgency, &saved.PriorityScore, jsonMapScanner{&saved.Rationale},
		&saved.Status, &saved.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &saved, nil
}
