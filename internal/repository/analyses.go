package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type AnalysisRepo struct{ db *pgxpool.Pool }

func NewAnalysisRepo(db *pgxpool.Pool) *AnalysisRepo { return &AnalysisRepo{db} }

const analysisColumns = `id, content_source_id, user_id, main_topic, sub_topics,
	key_takeaways, quotes, target_audience, audience_level, pain_points,
	suggested_ctas, sentiment, difficulty, full_analysis, created_at`

func scanAnalysis(row interface{ Scan(...any) error }) (*model.ContentAnalysis, error) {
	var a model.ContentAnalysis
	err := row.Scan(&a.ID, &a.ContentSourceID, &a.UserID, &a.MainTopic,
		jsonStringArrayScanner{&a.SubTopics},
		jsonStringArrayScanner{&a.KeyTakeaways},
		jsonStringArrayScanner{&a.Quotes},
		&a.TargetAudience, &a.AudienceLevel,
		jsonStringArrayScanner{&a.PainPoints},
		jsonStringArrayScanner{&a.SuggestedCTAs},
		&a.Sentiment, &a.Difficulty,
		jsonMapScanner{&a.FullAnalysis},
		&a.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &a, nil
}

func (r *AnalysisRepo) Create(ctx context.Context, a *model.ContentAnalysis) (*model.ContentAnalysis, error) {
	subTopics, err := marshalJSON(a.SubTopics)
	if err != nil {
		return nil, err
	}
	takeaways, err := marshalJSON(a.KeyTakeaways)
	if err != nil {
		return nil, err
	}
	quotes, err := marshalJSON(a.Quotes)
	if err != nil {
		return nil, err
	}
	painPoints, err := marshalJSON(a.PainPoints)
	if err != nil {
		return nil, err
	}
	ctas, err := marshalJSON(a.SuggestedCTAs)
	if err != nil {
		return nil, err
	}
	full, err := marshalJSON(a.FullAnalysis)
	if err != nil {
		return nil, err
	}
	return scanAnalysis(r.db.QueryRow(ctx, `
		INSERT INTO content_analyses
			(content_source_id, user_id, main_topic, sub_topics, key_takeaways,
			 quotes, target_audience, audience_level, pain_points, suggested_ctas,
			 sentiment, difficulty, full_analysis)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6::jsonb, $7, $8, $9::jsonb,
		        $10::jsonb, $11, $12, $13::jsonb)
		RETURNING `+analysisColumns,
		a.ContentSourceID, a.UserID, a.MainTopic, subTopics, takeaways,
		quotes, a.TargetAudience, a.AudienceLevel, painPoints, ctas,
		a.Sentiment, a.Difficulty, full))
}

func (r *AnalysisRepo) Get(ctx context.Context, id, userID string) (*model.ContentAnalysis, error) {
	return scanAnalysis(r.db.QueryRow(ctx, `
		SELECT `+analysisColumns+`
		FROM content_analyses WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *AnalysisRepo) ListBySource(ctx context.Context, contentSourceID, userID string) ([]model.ContentAnalysis, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+analysisColumns+`
		FROM content_analyses
		WHERE content_source_id = $1 AND user_id = $2
		ORDER BY created_at DESC`, contentSourceID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ContentAnalysis
	for rows.Next() {
		var a model.ContentAnalysis
		if err := rows.Scan(&a.ID, &a.ContentSourceID, &a.UserID, &a.MainTopic,
			jsonStringArrayScanner{&a.SubTopics},
			jsonStringArrayScanner{&a.KeyTakeaways},
			jsonStringArrayScanner{&a.Quotes},
			&a.TargetAudience, &a.AudienceLevel,
			jsonStringArrayScanner{&a.PainPoints},
			jsonStringArrayScanner{&a.SuggestedCTAs},
			&a.Sentiment, &a.Difficulty,
			jsonMapScanner{&a.FullAnalysis},
			&a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
