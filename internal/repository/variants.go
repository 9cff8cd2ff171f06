package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type VariantRepo struct{ db *pgxpool.Pool }

func NewVariantRepo(db *pgxpool.Pool) *VariantRepo { return &VariantRepo{db} }

const variantColumns = `id, newsletter_id, segment_id, variant_name, subject_line,
	content_markdown, content_html, changes_description, predicted_performance, created_at`

func (r *VariantRepo) Create(ctx context.Context, v *model.NewsletterVariant) (*model.NewsletterVariant, error) {
	predicted, err := marshalJSON(v.PredictedPerformance)
	if err != nil {
		return nil, err
	}
	var saved model.NewsletterVariant
	err = r.db.QueryRow(ctx, `
		INSERT INTO newsletter_variants
			(newsletter_id, segment_id, variant_name, subject_line,
			 content_markdown, content_html, changes_description, predicted_performance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)
		RETURNING `+variantColumns,
		v.NewsletterID, v.SegmentID, v.VariantName, v.SubjectLine,
		v.ContentMarkdown, v.ContentHTML, v.ChangesDescription, predicted,
	).Scan(&saved.ID, &saved.NewsletterID, &saved.SegmentID, &saved.VariantName,
		&saved.SubjectLine, &saved.ContentMarkdown, &saved.ContentHTML,
		&saved.ChangesDescription, jsonMapScanner{&saved.PredictedPerformance},
		&saved.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &saved, nil
}

// ListByNewsletter joins through newsletters to enforce ownership.
func (r *VariantRepo) ListByNewsletter(ctx context.Context, newsletterID, userID string) ([]model.NewsletterVariant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT v.id, v.newsletter_id, v.segment_id, v.variant_name, v.subject_line,
		       v.content_markdown, v.content_html, v.changes_description,
		       v.predicted_performance, v.created_at
		FROM newsletter_variants v
		JOIN newsletters n ON n.id = v.newsletter_id
		WHERE v.newsletter_id = $1 AND n.user_id = $2
		ORDER BY v.created_at DESC`, newsletterID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.NewsletterVariant
	for rows.Next() {
		var v model.NewsletterVariant
		if err := rows.Scan(&v.ID, &v.NewsletterID, &v.SegmentID, &v.VariantName,
			&v.SubjectLine, &v.ContentMarkdown, &v.ContentHTML,
			&v.ChangesDescription, jsonMapScanner{&v.PredictedPerformance},
			&v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
