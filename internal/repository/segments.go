package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type SegmentRepo struct{ db *pgxpool.Pool }

func NewSegmentRepo(db *pgxpool.Pool) *SegmentRepo { return &SegmentRepo{db} }

const segmentColumns = `id, user_id, name, description, criteria, size_estimate, created_at`

func (r *SegmentRepo) Create(ctx context.Context, s *model.AudienceSegment) (*model.AudienceSegment, error) {
	criteria, err := marshalJSON(s.Criteria)
	if err != nil {
		return nil, err
	}
	var saved model.AudienceSegment
	err = r.db.QueryRow(ctx, `
		INSERT INTO audience_segments (user_id, name, description, criteria, size_estimate)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		RETURNING `+segmentColumns,
		s.UserID, s.Name, s.Description, criteria, s.SizeEstimate,
	).Scan(&saved.ID, &saved.UserID, &saved.Name, &saved.Description,
		jsonMapScanner{&saved.Criteria}, &saved.SizeEstimate, &saved.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &saved, nil
}

func (r *SegmentRepo) List(ctx context.Context, userID string) ([]model.AudienceSegment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+segmentColumns+`
		FROM audience_segments WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AudienceSegment
	for rows.Next() {
		var s model.AudienceSegment
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Description,
			jsonMapScanner{&s.Criteria}, &s.SizeEstimate, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByIDs returns only segments that exist and belong to the caller;
// ids for other users are silently skipped.
func (r *SegmentRepo) ListByIDs(ctx context.Context, userID string, ids []string) ([]model.AudienceSegment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+segmentColumns+`
		FROM audience_segments
		WHERE user_id = $1 AND id = ANY($2)
		ORDER BY created_at`, userID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AudienceSegment
	for rows.Next() {
		var s model.AudienceSegment
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Description,
			jsonMapScanner{&s.Criteria}, &s.SizeEstimate, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SegmentRepo) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM audience_segments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
