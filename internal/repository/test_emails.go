package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type TestEmailRepo struct{ db *pgxpool.Pool }

func NewTestEmailRepo(db *pgxpool.Pool) *TestEmailRepo { return &TestEmailRepo{db} }

func (r *TestEmailRepo) Create(ctx context.Context, e *model.TestEmail) (*model.TestEmail, error) {
	var saved model.TestEmail
	err := r.db.QueryRow(ctx, `
		INSERT INTO test_emails (user_id, newsletter_id, recipient_email, subject_line, email_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, newsletter_id, recipient_email, subject_line, email_id, sent_at`,
		e.UserID, e.NewsletterID, e.RecipientEmail, e.SubjectLine, e.EmailID,
	).Scan(&saved.ID, &saved.UserID, &saved.NewsletterID, &saved.RecipientEmail,
		&saved.SubjectLine, &saved.EmailID, &saved.SentAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &saved, nil
}
