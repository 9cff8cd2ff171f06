package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsletterai/api/internal/model"
)

type ProfileRepo struct{ db *pgxpool.Pool }

func NewProfileRepo(db *pgxpool.Pool) *ProfileRepo { return &ProfileRepo{db} }

const profileColumns = `id, email, full_name, company, plan_tier,
	stripe_customer_id, stripe_subscription_id, subscription_status,
	usage_count, usage_limit, usage_reset_date, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*model.UserProfile, error) {
	var p model.UserProfile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Company, &p.PlanTier,
		&p.StripeCustomerID, &p.StripeSubscriptionID, &p.SubscriptionStatus,
		&p.UsageCount, &p.UsageLimit, &p.UsageResetDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &p, nil
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	return scanProfile(r.db.QueryRow(ctx, `
		SELECT `+profileColumns+` FROM user_profiles WHERE id = $1`, userID))
}

func (r *ProfileRepo) Upsert(ctx context.Context, id, email string, fullName *string) (*model.UserProfile, error) {
	return scanProfile(r.db.QueryRow(ctx, `
		INSERT INTO user_profiles (id, email, full_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = COALESCE(EXCLUDED.full_name, user_profiles.full_name),
			updated_at = NOW()
		RETURNING `+profileColumns, id, email, fullName))
}

func (r *ProfileRepo) SetStripeCustomerID(ctx context.Context, userID, customerID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_profiles SET stripe_customer_id = $1, updated_at = NOW()
		WHERE id = $2`, customerID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ActivateSubscription applies a completed checkout to the profile.
func (r *ProfileRepo) ActivateSubscription(ctx context.Context, userID, planTier, subscriptionID string, usageLimit int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_profiles
		SET plan_tier = $1,
		    stripe_subscription_id = $2,
		    subscription_status = 'active',
		    usage_limit = $3,
		    updated_at = NOW()
		WHERE id = $4`, planTier, subscriptionID, usageLimit, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProfileRepo) UpdateSubscriptionStatusByCustomer(ctx context.Context, customerID, status string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_profiles
		SET subscription_status = $1, updated_at = NOW()
		WHERE stripe_customer_id = $2`, status, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DowngradeByCustomer resets a profile to the free tier after a
// subscription is deleted.
func (r *ProfileRepo) DowngradeByCustomer(ctx context.Context, customerID string, freeLimit int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_profiles
		SET plan_tier = 'free',
		    subscription_status = 'canceled',
		    usage_limit = $1,
		    updated_at = NOW()
		WHERE stripe_customer_id = $2`, freeLimit, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProfileRepo) IncrementUsage(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE user_profiles
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1`, userID)
	return err
}
