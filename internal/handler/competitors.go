package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mmcdole/gofeed"
	"github.com/newsletterai/api/internal/middleware"
	"github.com/newsletterai/api/internal/model"
	"github.com/newsletterai/api/internal/repository"
	"github.com/newsletterai/api/internal/service"
)

type CompetitorHandler struct {
	competitors *repository.CompetitorRepo
	newsletters *repository.NewsletterRepo
	gaps        *repository.GapRepo
	trends      *repository.TrendRepo
	ai          *service.AIClient
}

func NewCompetitorHandler(
	competitors *repository.CompetitorRepo,
	newsletters *repository.NewsletterRepo,
	gaps *repository.GapRepo,
	trends *repository.TrendRepo,
	ai *service.AIClient,
) *CompetitorHandler {
	return &CompetitorHandler{
		competitors: competitors,
		newsletters: newsletters,
		gaps:        gaps,
		trends:      trends,
		ai:          ai,
	}
}

func (h *CompetitorHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		Name           string  `json:"name"`
		NewsletterName *string `json:"newsletterName"`
		WebsiteURL     *string `json:"websiteUrl"`
		ArchiveURL     *string `json:"archiveUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	saved, err := h.competitors.Create(r.Context(), &model.Competitor{
		UserID:         userID,
		Name:           strings.TrimSpace(body.Name),
		NewsletterName: body.NewsletterName,
		WebsiteURL:     body.WebsiteURL,
		ArchiveURL:     body.ArchiveURL,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"competitor": saved})
}

func (h *CompetitorHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	competitors, err := h.competitors.List(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"competitors": competitors})
}

func (h *CompetitorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if err := h.competitors.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompetitorHandler) ListNewsletters(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := chi.URLParam(r, "id")
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 10)

	if _, err := h.competitors.Get(r.Context(), id, userID); err != nil {
		writeRepoError(w, err)
		return
	}
	newsletters, err := h.competitors.ListNewsletters(r.Context(), id, userID, limit)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"newsletters": newsletters})
}

func (h *CompetitorHandler) AddNewsletter(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := chi.URLParam(r, "id")
	var body struct {
		SubjectLine string     `json:"subjectLine"`
		ContentText *string    `json:"contentText"`
		ContentHTML *string    `json:"contentHtml"`
		SendDate    *time.Time `json:"sendDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.SubjectLine) == "" {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	if _, err := h.competitors.Get(r.Context(), id, userID); err != nil {
		writeRepoError(w, err)
		return
	}

	saved, err := h.competitors.AddNewsletter(r.Context(), &model.CompetitorNewsletter{
		CompetitorID: id,
		SubjectLine:  strings.TrimSpace(body.SubjectLine),
		ContentText:  body.ContentText,
		ContentHTML:  body.ContentHTML,
		SendDate:     body.SendDate,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"newsletter": saved})
}

// FetchFromFeed pulls recent entries from the competitor's archive feed
// and stores the new ones. Already-seen subject lines are skipped.
func (h *CompetitorHandler) FetchFromFeed(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := chi.URLParam(r, "id")

	competitor, err := h.competitors.Get(r.Context(), id, userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if competitor.ArchiveURL == nil || *competitor.ArchiveURL == "" {
		writeError(w, "competitor has no archive URL", http.StatusBadRequest)
		return
	}

	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(*competitor.ArchiveURL, r.Context())
	if err != nil {
		writeError(w, "failed to parse archive feed", http.StatusUnprocessableEntity)
		return
	}

	items := feed.Items
	if len(items) > 10 {
		items = items[:10]
	}

	var added []model.CompetitorNewsletter
	for _, item := range items {
		subject := strings.TrimSpace(item.Title)
		if subject == "" {
			continue
		}
		exists, err := h.competitors.NewsletterExists(r.Context(), id, subject)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		if exists {
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}
		saved, err := h.competitors.AddNewsletter(r.Context(), &model.CompetitorNewsletter{
			CompetitorID: id,
			SubjectLine:  subject,
			ContentText:  &content,
			SendDate:     item.PublishedParsed,
		})
		if err != nil {
			writeRepoError(w, err)
			return
		}
		added = append(added, *saved)
	}

	writeJSON(w, map[string]any{"added": len(added), "newsletters": added})
}

// Analyze runs the competitor analysis prompt over each stored
// newsletter that has none yet, then aggregates common topics and the
// average quality score.
func (h *CompetitorHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		CompetitorID string `json:"competitorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.CompetitorID == "" {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	if _, err := h.competitors.Get(r.Context(), body.CompetitorID, userID); err != nil {
		writeRepoError(w, err)
		return
	}
	newsletters, err := h.competitors.ListNewsletters(r.Context(), body.CompetitorID, userID, 20)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if len(newsletters) == 0 {
		writeError(w, "no newsletters to analyze", http.StatusNotFound)
		return
	}

	topicCounts := map[string]int{}
	var qualitySum float64
	var qualityCount int
	analyzed := make([]model.CompetitorNewsletter, 0, len(newsletters))

	for _, n := range newsletters {
		analysis := n.Analysis
		if analysis == nil {
			content := ""
			if n.ContentText != nil {
				content = *n.ContentText
			}
			result, err := h.ai.AnalyzeCompetitorNewsletter(r.Context(), n.SubjectLine, content)
			if err != nil {
				log.Printf("competitor analysis failed for %s: %v", n.ID, err)
				writeAIError(w, err)
				return
			}
			if err := h.competitors.SetNewsletterAnalysis(r.Context(), n.ID, result.Full); err != nil {
				writeRepoError(w, err)
				return
			}
			analysis = result.Full
			n.Analysis = analysis
		}

		if topics, ok := analysis["main_topics"].([]any); ok {
			for _, t := range topics {
				if s, ok := t.(string); ok && s != "" {
					topicCounts[strings.ToLower(s)]++
				}
			}
		}
		if q, ok := analysis["overall_quality_score"].(float64); ok {
			qualitySum += q
			qualityCount++
		}
		analyzed = append(analyzed, n)
	}

	var commonTopics []string
	for topic, count := range topicCounts {
		if count >= 2 {
			commonTopics = append(commonTopics, topic)
		}
	}
	var avgQuality float64
	if qualityCount > 0 {
		avgQuality = qualitySum / float64(qualityCount)
	}

	writeJSON(w, map[string]any{
		"analyses": analyzed,
		"aggregate": map[string]any{
			"common_topics":     commonTopics,
			"avg_quality_score": avgQuality,
			"analyzed_count":    len(analyzed),
		},
	})
}

// Gaps compares the user's past titles against competitor and trending
// topics. Empty competitor or trend data is tolerated; the prompt runs
// with whatever is available.
func (h *CompetitorHandler) Gaps(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	userTopics, err := h.newsletters.Titles(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	competitorTopics, err := h.competitors.AnalyzedTopics(r.Context(), userID, 20)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	var trendingTopics []string
	if fresh, err := h.trends.ListFresh(r.Context(), time.Now().Add(-service.TrendTTL), 20); err == nil {
		for _, t := range fresh {
			trendingTopics = append(trendingTopics, t.Topic)
		}
	}

	results, err := h.ai.FindContentGaps(r.Context(), userTopics, competitorTopics, trendingTopics)
	if err != nil {
		log.Printf("gap detection failed for %s: %v", userID, err)
		writeAIError(w, err)
		return
	}

	gaps := make([]model.ContentGap, 0, len(results))
	for _, g := range results {
		angle := g.SuggestedAngle
		gaps = append(gaps, model.ContentGap{
			Topic:           g.Topic,
			Description:     g.Description,
			OpportunityType: g.GapType,
			SuggestedAngle:  &angle,
			Rationale:       g.Rationale,
			PriorityScore:   g.PriorityScore,
			Urgency:         g.Urgency,
		})
	}

	saved, err := h.gaps.ReplaceAllByUser(r.Context(), userID, gaps)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"gaps": saved})
}

func (h *CompetitorHandler) ListGaps(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	gaps, err := h.gaps.List(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"gaps": gaps})
}
