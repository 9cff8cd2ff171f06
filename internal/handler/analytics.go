package handler

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/newsletterai/api/internal/middleware"
	"github.com/newsletterai/api/internal/model"
	"github.com/newsletterai/api/internal/repository"
	"github.com/newsletterai/api/internal/service"
)

type AnalyticsHandler struct {
	analytics   *repository.AnalyticsRepo
	insights    *repository.InsightRepo
	newsletters *repository.NewsletterRepo
	ai          *service.AIClient
}

func NewAnalyticsHandler(
	analytics *repository.AnalyticsRepo,
	insights *repository.InsightRepo,
	newsletters *repository.NewsletterRepo,
	ai *service.AIClient,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics:   analytics,
		insights:    insights,
		newsletters: newsletters,
		ai:          ai,
	}
}

// computeRate returns round(count/delivered*100, 2); 0 when nothing was
// delivered.
func computeRate(count, delivered int) float64 {
	if delivered <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(delivered)*100*100) / 100
}

func (h *AnalyticsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		NewsletterID     *string   `json:"newsletterId"`
		Title            string    `json:"title"`
		SentCount        int       `json:"sentCount"`
		DeliveredCount   int       `json:"deliveredCount"`
		OpenCount        int       `json:"openCount"`
		ClickCount       int       `json:"clickCount"`
		UnsubscribeCount int       `json:"unsubscribeCount"`
		BounceCount      int       `json:"bounceCount"`
		SentAt           time.Time `json:"sentAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if body.SentAt.IsZero() {
		body.SentAt = time.Now()
	}

	saved, err := h.analytics.Create(r.Context(), &model.NewsletterAnalytics{
		UserID:           userID,
		NewsletterID:     body.NewsletterID,
		Title:            body.Title,
		SentCount:        body.SentCount,
		DeliveredCount:   body.DeliveredCount,
		OpenCount:        body.OpenCount,
		ClickCount:       body.ClickCount,
		UnsubscribeCount: body.UnsubscribeCount,
		BounceCount:      body.BounceCount,
		OpenRate:         computeRate(body.OpenCount, body.DeliveredCount),
		ClickRate:        computeRate(body.ClickCount, body.DeliveredCount),
		SentAt:           body.SentAt,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"analytics": saved})
}

func (h *AnalyticsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 100)
	rows, err := h.analytics.List(r.Context(), userID, limit)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"analytics": rows})
}

func analyticsDataPoints(rows []model.NewsletterAnalytics) []service.AnalyticsDataPoint {
	points := make([]service.AnalyticsDataPoint, 0, len(rows))
	for _, a := range rows {
		points = append(points, service.AnalyticsDataPoint{
			NewsletterTitle: a.Title,
			SentCount:       a.SentCount,
			OpenRate:        a.OpenRate,
			ClickRate:       a.ClickRate,
			SentDate:        a.SentAt.Format("2006-01-02"),
		})
	}
	return points
}

func (h *AnalyticsHandler) GenerateInsights(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	count, err := h.analytics.CountByUser(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if count == 0 {
		writeError(w, "no analytics data available", http.StatusNotFound)
		return
	}

	rows, err := h.analytics.List(r.Context(), userID, 50)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	results, err := h.ai.GenerateInsights(r.Context(), analyticsDataPoints(rows))
	if err != nil {
		log.Printf("insight generation failed for %s: %v", userID, err)
		writeAIError(w, err)
		return
	}

	insights := make([]model.PerformanceInsight, 0, len(results))
	for _, in := range results {
		rec := in.Recommendation
		insights = append(insights, model.PerformanceInsight{
			InsightType:     in.InsightType,
			InsightText:     in.InsightText,
			DataPoints:      in.DataPoints,
			ConfidenceScore: in.ConfidenceScore,
			Recommendation:  &rec,
			Actionable:      rec != "",
		})
	}

	saved, err := h.insights.ReplaceAllByUser(r.Context(), userID, insights)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"insights": saved})
}

func (h *AnalyticsHandler) ListInsights(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	rows, err := h.insights.List(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"insights": rows})
}

func (h *AnalyticsHandler) Predict(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		NewsletterID string `json:"newsletterId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewsletterID == "" {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	count, err := h.analytics.CountByUser(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if count == 0 {
		writeError(w, "no analytics data available", http.StatusNotFound)
		return
	}

	n, err := h.newsletters.Get(r.Context(), body.NewsletterID, userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	rows, err := h.analytics.List(r.Context(), userID, 50)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	subjectLine := n.Title
	if n.SelectedSubjectLine != nil && *n.SelectedSubjectLine != "" {
		subjectLine = *n.SelectedSubjectLine
	}

	prediction, err := h.ai.PredictPerformance(r.Context(), service.PredictionSubject{
		Title:       n.Title,
		SubjectLine: subjectLine,
		Tone:        n.Tone,
		Length:      n.Length,
		WordCount:   n.WordCount,
		Structure:   n.Structure,
	}, analyticsDataPoints(rows))
	if err != nil {
		log.Printf("prediction failed for newsletter %s: %v", n.ID, err)
		writeAIError(w, err)
		return
	}
	writeJSON(w, map[string]any{"prediction": prediction})
}
