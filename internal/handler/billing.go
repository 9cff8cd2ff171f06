package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/newsletterai/api/internal/middleware"
	"github.com/newsletterai/api/internal/repository"
	"github.com/newsletterai/api/internal/service"
	"github.com/stripe/stripe-go/v79"
)

type BillingHandler struct {
	profiles *repository.ProfileRepo
	billing  *service.BillingClient
}

func NewBillingHandler(profiles *repository.ProfileRepo, billing *service.BillingClient) *BillingHandler {
	return &BillingHandler{profiles: profiles, billing: billing}
}

func (h *BillingHandler) Plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"plans": h.billing.Plans()})
}

func (h *BillingHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"profile": profile})
}

func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Plan == "" {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	customerID, err := h.billing.EnsureCustomer(profile.StripeCustomerID, userID, profile.Email)
	if err != nil {
		log.Printf("stripe customer creation failed for %s: %v", userID, err)
		writeError(w, "billing provider error", http.StatusInternalServerError)
		return
	}
	if profile.StripeCustomerID == nil || *profile.StripeCustomerID != customerID {
		if err := h.profiles.SetStripeCustomerID(r.Context(), userID, customerID); err != nil {
			writeRepoError(w, err)
			return
		}
	}

	sess, err := h.billing.CreateCheckoutSession(customerID, userID, body.Plan)
	if err != nil {
		log.Printf("checkout session failed for %s: %v", userID, err)
		writeError(w, "failed to create checkout session", http.StatusBadRequest)
		return
	}
	writeJSON(w, sess)
}

// Webhook applies billing provider events to user profiles. It is the
// only unauthenticated mutation endpoint; trust comes from signature
// verification.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, "invalid payload", http.StatusBadRequest)
		return
	}

	event, err := h.billing.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		writeError(w, "invalid signature", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			writeError(w, "invalid event payload", http.StatusBadRequest)
			return
		}
		userID := sess.Metadata["user_id"]
		planTier := sess.Metadata["plan_tier"]
		if userID == "" || planTier == "" {
			log.Printf("checkout.session.completed missing metadata, session %s", sess.ID)
			break
		}
		subscriptionID := ""
		if sess.Subscription != nil {
			subscriptionID = sess.Subscription.ID
		}
		if err := h.profiles.ActivateSubscription(r.Context(), userID, planTier,
			subscriptionID, h.billing.PlanUsageLimit(planTier)); err != nil {
			log.Printf("subscription activation failed for %s: %v", userID, err)
			writeRepoError(w, err)
			return
		}

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			writeError(w, "invalid event payload", http.StatusBadRequest)
			return
		}
		if sub.Customer == nil {
			break
		}
		if err := h.profiles.UpdateSubscriptionStatusByCustomer(r.Context(),
			sub.Customer.ID, string(sub.Status)); err != nil {
			log.Printf("subscription status sync failed for customer %s: %v", sub.Customer.ID, err)
			writeRepoError(w, err)
			return
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			writeError(w, "invalid event payload", http.StatusBadRequest)
			return
		}
		if sub.Customer == nil {
			break
		}
		if err := h.profiles.DowngradeByCustomer(r.Context(),
			sub.Customer.ID, service.FreeUsageLimit); err != nil {
			log.Printf("downgrade failed for customer %s: %v", sub.Customer.ID, err)
			writeRepoError(w, err)
			return
		}
	}

	writeJSON(w, map[string]any{"received": true})
}
