package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type CompetitorRepo struct{ db *pgxpool.Pool }

func NewCompetitorRepo(db *pgxpool.Pool) *CompetitorRepo { return &CompetitorRepo{db} }

const competitorColumns = `id, user_id, name, newsletter_name, website_url,
	archive_url, created_at`

func scanCompetitor(row interface{ Scan(...any) error }) (*model.Competitor, error) {
	var c model.Competitor
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.NewsletterName,
		&c.WebsiteURL, &c.ArchiveURL, &c.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &c, nil
}

func (r *CompetitorRepo) Create(ctx context.Context, c *model.Competitor) (*model.Competitor, error) {
	return scanCompetitor(r.db.QueryRow(ctx, `
		INSERT INTO competitors (user_id, name, newsletter_name, website_url, archive_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+competitorColumns,
		c.UserID, c.Name, c.NewsletterName, c.WebsiteURL, c.ArchiveURL))
}

func (r *CompetitorRepo) Get(ctx context.Context, id, userID string) (*model.Competitor, error) {
	return scanCompetitor(r.db.QueryRow(ctx, `
		SELECT `+competitorColumns+`
		FROM competitors WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *CompetitorRepo) List(ctx context.Context, userID string) ([]model.Competitor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+competitorColumns+`
		FROM competitors WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Competitor
	for rows.Next() {
		var c model.Competitor
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.NewsletterName,
			&c.WebsiteURL, &c.ArchiveURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CompetitorRepo) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM competitors WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const competitorNewsletterColumns = `id, competitor_id, subject_line,
	content_text, content_html, send_date, scraped_at, analysis`

func (r *CompetitorRepo) AddNewsletter(ctx context.Context, n *model.CompetitorNewsletter) (*model.CompetitorNewsletter, error) {
	var saved model.CompetitorNewsletter
	err := r.db.QueryRow(ctx, `
		INSERT INTO competitor_newsletters
			(competitor_id, subject_line, content_text, content_html, send_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+competitorNewsletterColumns,
		n.CompetitorID, n.SubjectLine, n.ContentText, n.ContentHTML, n.SendDate,
	).Scan(&saved.ID, &saved.CompetitorID, &saved.SubjectLine,
		&saved.ContentText, &saved.ContentHTML, &saved.SendDate,
		&saved.ScrapedAt, jsonMapScanner{&saved.Analysis})
	if err != nil {
		return nil, mapDBError(err)
	}
	return &saved, nil
}

// ListNewsletters joins through competitors so ownership is enforced
// even though competitor_newsletters has no user_id column.
func (r *CompetitorRepo) ListNewsletters(ctx context.Context, competitorID, userID string, limit int) ([]model.CompetitorNewsletter, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx, `
		SELECT n.id, n.competitor_id, n.subject_line, n.content_text,
		       n.content_html, n.send_date, n.scraped_at, n.analysis
		FROM competitor_newsletters n
		JOIN competitors c ON c.id = n.competitor_id
		WHERE n.competitor_id = $1 AND c.user_id = $2
		ORDER BY n.scraped_at DESC
		LIMIT $3`, competitorID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CompetitorNewsletter
	for rows.Next() {
		var n model.CompetitorNewsletter
		if err := rows.Scan(&n.ID, &n.CompetitorID, &n.SubjectLine,
			&n.ContentText, &n.ContentHTML, &n.SendDate, &n.ScrapedAt,
			jsonMapScanner{&n.Analysis}); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *CompetitorRepo) SetNewsletterAnalysis(ctx context.Context, newsletterID string, analysis map[string]any) error {
	payload, err := marshalJSON(analysis)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		UPDATE competitor_newsletters SET analysis = $1::jsonb WHERE id = $2`,
		payload, newsletterID)
	return err
}

// NewsletterExists reports whether a competitor already has an entry
// with the given subject line. Keeps feed refreshes idempotent.
func (r *CompetitorRepo) NewsletterExists(ctx context.Context, competitorID, subjectLine string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM competitor_newsletters
			WHERE competitor_id = $1 AND subject_line = $2)`,
		competitorID, subjectLine).Scan(&exists)
	return exists, err
}

// AnalyzedTopics collects main_topics from stored analyses across all
// of the user's competitors, for gap detection input.
type CompetitorTopics struct {
	Competitor string   `json:"competitor"`
	Subject    string   `json:"subject"`
	Topics     []string `json:"topics"`
}

func (r *CompetitorRepo) AnalyzedTopics(ctx context.Context, userID string, perCompetitor int) ([]CompetitorTopics, error) {
	if perCompetitor <= 0 {
		perCompetitor = 20
	}
	rows, err := r.db.Query(ctx, `
		SELECT c.name, n.subject_line, n.analysis
		FROM competitor_newsletters n
		JOIN competitors c ON c.id = n.competitor_id
		WHERE c.user_id = $1 AND n.analysis IS NOT NULL
		ORDER BY n.scraped_at DESC
		LIMIT $2`, userID, perCompetitor*5)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompetitorTopics
	seen := map[string]int{}
	for rows.Next() {
		var (
			name     string
			subject  string
			analysis map[string]any
		)
		if err := rows.Scan(&name, &subject, jsonMapScanner{&analysis}); err != nil {
			return nil, err
		}
		if seen[name] >= perCompetitor {
			continue
		}
		topics := stringSliceFromAny(analysis["main_topics"])
		if len(topics) == 0 {
			continue
		}
		seen[name]++
		out = append(out, CompetitorTopics{Competitor: name, Subject: subject, Topics: topics})
	}
	return out, rows.Err()
}

func stringSliceFromAny(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Touch helpers for feed refresh bookkeeping.
func (r *CompetitorRepo) SetNewsletterSendDate(ctx context.Context, newsletterID string, sendDate time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE competitor_newsletters SET send_date = $1 WHERE id = $2`,
		sendDate, newsletterID)
	return err
}
