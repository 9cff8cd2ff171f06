package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/newsletterai/api/internal/middleware"
	"github.com/newsletterai/api/internal/model"
	"github.com/newsletterai/api/internal/repository"
	"github.com/newsletterai/api/internal/service"
)

type IdeaHandler struct {
	ideas  *repository.IdeaRepo
	trends *repository.TrendRepo
	ai     *service.AIClient
	cache  service.JSONCache
	fetch  *service.TrendsProvider
}

func NewIdeaHandler(
	ideas *repository.IdeaRepo,
	trends *repository.TrendRepo,
	ai *service.AIClient,
	cache service.JSONCache,
	fetch *service.TrendsProvider,
) *IdeaHandler {
	return &IdeaHandler{ideas: ideas, trends: trends, ai: ai, cache: cache, fetch: fetch}
}

func (h *IdeaHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body service.IdeaGenerationContext
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Niche) == "" {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if body.Frequency == "" {
		body.Frequency = "weekly"
	}

	results, err := h.ai.GenerateWeeklyIdeas(r.Context(), body)
	if err != nil {
		log.Printf("idea generation failed for %s: %v", userID, err)
		writeAIError(w, err)
		return
	}

	ideas := make([]model.ContentIdea, 0, len(results))
	for _, idea := range results {
		ideas = append(ideas, model.ContentIdea{
			Topic:             idea.Topic,
			SuggestedHeadline: idea.SuggestedHeadline,
			Angle:             idea.Angle,
			Outline:           idea.Outline,
			Category:          idea.Category,
			Difficulty:        idea.Difficulty,
			Urgency:           idea.Urgency,
			PriorityScore:     idea.PriorityScore,
			Rationale: map[string]any{
				"week":       idea.Week,
				"reason":     idea.Rationale,
				"best_month": idea.BestMonth,
			},
		})
	}

	saved, err := h.ideas.CreateBatch(r.Context(), userID, ideas)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"ideas": saved})
}

func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}
	ideas, err := h.ideas.List(r.Context(), userID, status)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"ideas": ideas})
}

func (h *IdeaHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	switch body.Status {
	case "suggested", "scheduled", "used":
	default:
		writeError(w, "invalid status", http.StatusBadRequest)
		return
	}

	saved, err := h.ideas.UpdateStatus(r.Context(), chi.URLParam(r, "id"), userID, body.Status)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"idea": saved})
}

const trendsCacheKey = "trending_topics"

// Trends serves the shared trending-topic list: redis first, then the
// database, then a provider fetch that repopulates both.
func (h *IdeaHandler) Trends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached []model.TrendingTopic
	if hit, err := h.cache.GetJSON(ctx, trendsCacheKey, &cached); err == nil && hit {
		writeJSON(w, map[string]any{"trends": cached, "cached": true})
		return
	}

	fresh, err := h.trends.ListFresh(ctx, time.Now().Add(-service.TrendTTL), 20)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if len(fresh) > 0 {
		if err := h.cache.SetJSON(ctx, trendsCacheKey, fresh, time.Hour); err != nil {
			log.Printf("trend cache write failed: %v", err)
		}
		writeJSON(w, map[string]any{"trends": fresh, "cached": true})
		return
	}

	keywords := strings.Split(r.URL.Query().Get("keywords"), ",")
	if len(keywords) == 1 && keywords[0] == "" {
		keywords = nil
	}
	fetched := h.fetch.FetchTrends(ctx, keywords)
	saved, err := h.trends.Refresh(ctx, fetched)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if err := h.cache.SetJSON(ctx, trendsCacheKey, saved, time.Hour); err != nil {
		log.Printf("trend cache write failed: %v", err)
	}
	writeJSON(w, map[string]any{"trends": saved, "cached": false})
}
