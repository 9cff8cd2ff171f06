package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type NewsletterRepo struct{ db *pgxpool.Pool }

func NewNewsletterRepo(db *pgxpool.Pool) *NewsletterRepo { return &NewsletterRepo{db} }

const newsletterColumns = `id, user_id, content_source_id, analysis_id, title,
	subject_lines, selected_subject_line, content_markdown, content_html,
	tone, length, structure, word_count, reading_time_minutes, status,
	created_at, updated_at`

func scanNewsletter(row interface{ Scan(...any) error }) (*model.Newsletter, error) {
	var n model.Newsletter
	err := row.Scan(&n.ID, &n.UserID, &n.ContentSourceID, &n.AnalysisID, &n.Title,
		subjectLinesScanner{&n.SubjectLines}, &n.SelectedSubjectLine,
		&n.ContentMarkdown, &n.ContentHTML,
		&n.Tone, &n.Length, &n.Structure, &n.WordCount, &n.ReadingTimeMinutes,
		&n.Status, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &n, nil
}

func (r *NewsletterRepo) Create(ctx context.Context, n *model.Newsletter) (*model.Newsletter, error) {
	return scanNewsletter(r.db.QueryRow(ctx, `
		INSERT INTO newsletters
			(user_id, content_source_id, analysis_id, title, content_markdown,
			 content_html, tone, length, structure, word_count,
			 reading_time_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'draft')
		RETURNING `+newsletterColumns,
		n.UserID, n.ContentSourceID, n.AnalysisID, n.Title, n.ContentMarkdown,
		n.ContentHTML, n.Tone, n.Length, n.Structure, n.WordCount,
		n.ReadingTimeMinutes))
}

func (r *NewsletterRepo) Get(ctx context.Context, id, userID string) (*model.Newsletter, error) {
	return scanNewsletter(r.db.QueryRow(ctx, `
		SELECT `+newsletterColumns+`
		FROM newsletters WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *NewsletterRepo) List(ctx context.Context, userID string) ([]model.Newsletter, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+newsletterColumns+`
		FROM newsletters WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Newsletter
	for rows.Next() {
		var n model.Newsletter
		if err := rows.Scan(&n.ID, &n.UserID, &n.ContentSourceID, &n.AnalysisID, &n.Title,
			subjectLinesScanner{&n.SubjectLines}, &n.SelectedSubjectLine,
			&n.ContentMarkdown, &n.ContentHTML,
			&n.Tone, &n.Length, &n.Structure, &n.WordCount, &n.ReadingTimeMinutes,
			&n.Status, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Titles returns the user's past newsletter titles, newest first. Used
// as the "already covered" topic list for gap detection.
func (r *NewsletterRepo) Titles(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT title FROM newsletters
		WHERE user_id = $1 AND title <> ''
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

func (r *NewsletterRepo) SetSubjectLines(ctx context.Context, id, userID string, lines []model.SubjectLine) error {
	payload, err := marshalJSON(lines)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE newsletters
		SET subject_lines = $1::jsonb, updated_at = NOW()
		WHERE id = $2 AND user_id = $3`, payload, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type NewsletterPatch struct {
	Title               *string
	ContentMarkdown     *string
	ContentHTML         *string
	SelectedSubjectLine *string
	Status              *string
	WordCount           *int
	ReadingTimeMinutes  *int
}

func (r *NewsletterRepo) Update(ctx context.Context, id, userID string, p NewsletterPatch) (*model.Newsletter, error) {
	return scanNewsletter(r.db.QueryRow(ctx, `
		UPDATE newsletters
		SET title = COALESCE($1, title),
		    content_markdown = COALESCE($2, content_markdown),
		    content_html = COALESCE($3, content_html),
		    selected_subject_line = COALESCE($4, selected_subject_line),
		    status = COALESCE($5, status),
		    word_count = COALESCE($6, word_count),
		    reading_time_minutes = COALESCE($7, reading_time_minutes),
		    updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING `+newsletterColumns,
		p.Title, p.ContentMarkdown, p.ContentHTML, p.SelectedSubjectLine,
		p.Status, p.WordCount, p.ReadingTimeMinutes, id, userID))
}
