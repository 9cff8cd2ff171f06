package service

import (
	"fmt"
	"os"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Plan is one billing tier. UsageLimit -1 means unlimited newsletter
// generations per month.
type Plan struct {
	Tier       string   `json:"tier"`
	Name       string   `json:"name"`
	PriceUSD   int      `json:"price_usd"`
	UsageLimit int      `json:"usage_limit"`
	Features   []string `json:"features"`
	priceID    string
}

const (
	PlanFree  = "free"
	PlanBasic = "basic"
	PlanPro   = "pro"
)

const FreeUsageLimit = 2

// BillingClient wraps checkout-session creation and webhook
// verification against the payment provider.
type BillingClient struct {
	webhookSecret string
	appURL        string
	plans         []Plan
}

func NewBillingClient() *BillingClient {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:3000"
	}
	return &BillingClient{
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		appURL:        appURL,
		plans: []Plan{
			{
				Tier:       PlanFree,
				Name:       "Free",
				PriceUSD:   0,
				UsageLimit: FreeUsageLimit,
				Features:   []string{"2 newsletters per month", "Content import", "Basic analytics"},
			},
			{
				Tier:       PlanBasic,
				Name:       "Basic",
				PriceUSD:   39,
				UsageLimit: 10,
				Features:   []string{"10 newsletters per month", "Subject line generation", "Performance insights", "Test emails"},
				priceID:    os.Getenv("STRIPE_PRICE_BASIC"),
			},
			{
				Tier:       PlanPro,
				Name:       "Pro",
				PriceUSD:   97,
				UsageLimit: -1,
				Features:   []string{"Unlimited newsletters", "Competitor tracking", "Content gap detection", "Personalization", "Predictions"},
				priceID:    os.Getenv("STRIPE_PRICE_PRO"),
			},
		},
	}
}

func (b *BillingClient) Plans() []Plan { return b.plans }

func (b *BillingClient) planByTier(tier string) (Plan, bool) {
	for _, p := range b.plans {
		if p.Tier == tier {
			return p, true
		}
	}
	return Plan{}, false
}

// PlanUsageLimit maps a tier name to its monthly generation limit.
// Unknown tiers get the free limit.
func (b *BillingClient) PlanUsageLimit(tier string) int {
	if p, ok := b.planByTier(tier); ok {
		return p.UsageLimit
	}
	return FreeUsageLimit
}

// EnsureCustomer returns the user's provider customer id, creating one
// when the profile has none yet.
func (b *BillingClient) EnsureCustomer(existingID *string, userID, email string) (string, error) {
	if existingID != nil && *existingID != "" {
		return *existingID, nil
	}
	c, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(email),
		Params: stripe.Params{
			Metadata: map[string]string{"user_id": userID},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return c.ID, nil
}

// CheckoutSession is the caller-facing result of a checkout request.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CreateCheckoutSession starts a subscription checkout for a paid tier
// and returns the session id plus the hosted payment page URL.
func (b *BillingClient) CreateCheckoutSession(customerID, userID, planTier string) (*CheckoutSession, error) {
	plan, ok := b.planByTier(planTier)
	if !ok || plan.priceID == "" {
		return nil, fmt.Errorf("plan %q is not purchasable", planTier)
	}

	s, err := session.New(&stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(plan.priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(b.appURL + "/settings/billing?checkout=success"),
		CancelURL:  stripe.String(b.appURL + "/settings/billing?checkout=cancelled"),
		Params: stripe.Params{
			Metadata: map[string]string{
				"user_id":   userID,
				"plan_tier": planTier,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{SessionID: s.ID, URL: s.URL}, nil
}

// VerifyWebhook checks the event signature and returns the parsed
// event. Unsigned or tampered payloads are rejected.
func (b *BillingClient) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, b.webhookSecret)
}
