package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/newsletterai/api/internal/middleware"
	"github.com/newsletterai/api/internal/model"
	"github.com/newsletterai/api/internal/repository"
	"github.com/newsletterai/api/internal/service"
)

type PersonalizationHandler struct {
	segments    *repository.SegmentRepo
	variants    *repository.VariantRepo
	newsletters *repository.NewsletterRepo
	ai          *service.AIClient
}

func NewPersonalizationHandler(
	segments *repository.SegmentRepo,
	variants *repository.VariantRepo,
	newsletters *repository.NewsletterRepo,
	ai *service.AIClient,
) *PersonalizationHandler {
	return &PersonalizationHandler{
		segments:    segments,
		variants:    variants,
		newsletters: newsletters,
		ai:          ai,
	}
}

func (h *PersonalizationHandler) CreateSegment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		Name         string         `json:"name"`
		Description  *string        `json:"description"`
		Criteria     map[string]any `json:"criteria"`
		SizeEstimate *int           `json:"sizeEstimate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	saved, err := h.segments.Create(r.Context(), &model.AudienceSegment{
		UserID:       userID,
		Name:         strings.TrimSpace(body.Name),
		Description:  body.Description,
		Criteria:     body.Criteria,
		SizeEstimate: body.SizeEstimate,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"segment": saved})
}

func (h *PersonalizationHandler) ListSegments(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	segments, err := h.segments.List(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"segments": segments})
}

func (h *PersonalizationHandler) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if err := h.segments.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// segmentProfile flattens the free-form criteria blob into the fields
// the personalization prompt expects.
func segmentProfile(s model.AudienceSegment) service.SegmentProfile {
	p := service.SegmentProfile{Name: s.Name}
	if s.Description != nil {
		p.Description = *s.Description
	}
	if s.Criteria != nil {
		if v, ok := s.Criteria["interests"].([]any); ok {
			for _, item := range v {
				if str, ok := item.(string); ok {
					p.Interests = append(p.Interests, str)
				}
			}
		}
		if v, ok := s.Criteria["behavior"].([]any); ok {
			for _, item := range v {
				if str, ok := item.(string); ok {
					p.Behavior = append(p.Behavior, str)
				}
			}
		}
	}
	return p
}

func (h *PersonalizationHandler) GenerateVariants(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		NewsletterID string   `json:"newsletterId"`
		SegmentIDs   []string `json:"segmentIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		body.NewsletterID == "" || len(body.SegmentIDs) == 0 {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	n, err := h.newsletters.Get(r.Context(), body.NewsletterID, userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	segments, err := h.segments.ListByIDs(r.Context(), userID, body.SegmentIDs)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if len(segments) == 0 {
		writeError(w, "not found", http.StatusNotFound)
		return
	}

	variants := make([]model.NewsletterVariant, 0, len(segments))
	for _, seg := range segments {
		result, err := h.ai.PersonalizeNewsletter(r.Context(), n.Title, n.ContentMarkdown, segmentProfile(seg))
		if err != nil {
			log.Printf("variant generation failed for segment %s: %v", seg.ID, err)
			writeAIError(w, err)
			return
		}

		html, err := service.MarkdownToHTML(result.ContentMarkdown)
		if err != nil {
			writeError(w, "internal error", http.StatusInternalServerError)
			return
		}

		saved, err := h.variants.Create(r.Context(), &model.NewsletterVariant{
			NewsletterID:         n.ID,
			SegmentID:            seg.ID,
			VariantName:          fmt.Sprintf("%s - %s", n.Title, seg.Name),
			SubjectLine:          result.SubjectLine,
			ContentMarkdown:      result.ContentMarkdown,
			ContentHTML:          html,
			ChangesDescription:   strings.Join(result.ChangesDescription, "; "),
			PredictedPerformance: result.PredictedPerformance,
		})
		if err != nil {
			writeRepoError(w, err)
			return
		}
		variants = append(variants, *saved)
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"variants": variants})
}

func (h *PersonalizationHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	newsletterID := r.URL.Query().Get("newsletterId")
	if newsletterID == "" {
		writeError(w, "newsletterId is required", http.StatusBadRequest)
		return
	}
	variants, err := h.variants.ListByNewsletter(r.Context(), newsletterID, userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"variants": variants})
}
