package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/newsletterai/api/internal/middleware"
	"github.com/newsletterai/api/internal/model"
	"github.com/newsletterai/api/internal/repository"
	"github.com/newsletterai/api/internal/service"
)

type NewsletterHandler struct {
	newsletters *repository.NewsletterRepo
	analyses    *repository.AnalysisRepo
	sources     *repository.ContentSourceRepo
	profiles    *repository.ProfileRepo
	testEmails  *repository.TestEmailRepo
	ai          *service.AIClient
	resend      *service.ResendClient
}

func NewNewsletterHandler(
	newsletters *repository.NewsletterRepo,
	analyses *repository.AnalysisRepo,
	sources *repository.ContentSourceRepo,
	profiles *repository.ProfileRepo,
	testEmails *repository.TestEmailRepo,
	ai *service.AIClient,
	resend *service.ResendClient,
) *NewsletterHandler {
	return &NewsletterHandler{
		newsletters: newsletters,
		analyses:    analyses,
		sources:     sources,
		profiles:    profiles,
		testEmails:  testEmails,
		ai:          ai,
		resend:      resend,
	}
}

// statusRank orders the newsletter lifecycle; transitions may only move
// forward (draft -> ready -> sent).
var statusRank = map[string]int{"draft": 0, "ready": 1, "sent": 2}

func (h *NewsletterHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		ContentSourceID string                    `json:"contentSourceId"`
		AnalysisID      string                    `json:"analysisId"`
		Options         service.NewsletterOptions `json:"options"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AnalysisID == "" {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if body.Options.Tone == "" {
		body.Options.Tone = "professional"
	}
	if body.Options.Length == "" {
		body.Options.Length = "medium"
	}
	if body.Options.Structure == "" {
		body.Options.Structure = "standard"
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if profile.UsageLimit != -1 && profile.UsageCount >= profile.UsageLimit {
		writeError(w, "usage limit reached", http.StatusForbidden)
		return
	}

	analysis, err := h.analyses.Get(r.Context(), body.AnalysisID, userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	transcript := ""
	sourceID := analysis.ContentSourceID
	if body.ContentSourceID != "" {
		sourceID = body.ContentSourceID
	}
	if src, err := h.sources.Get(r.Context(), sourceID, userID); err == nil {
		transcript = src.Transcript
	}

	generated, err := h.ai.GenerateNewsletter(r.Context(), analysis.FullAnalysis, transcript, body.Options)
	if err != nil {
		log.Printf("newsletter generation failed for analysis %s: %v", analysis.ID, err)
		writeAIError(w, err)
		return
	}

	html, err := service.MarkdownToHTML(generated.ContentMarkdown)
	if err != nil {
		writeError(w, "internal error", http.StatusInternalServerError)
		return
	}
	wordCount := service.CountWords(generated.ContentMarkdown)

	saved, err := h.newsletters.Create(r.Context(), &model.Newsletter{
		UserID:             userID,
		ContentSourceID:    &sourceID,
		AnalysisID:         &analysis.ID,
		Title:              generated.Title,
		ContentMarkdown:    generated.ContentMarkdown,
		ContentHTML:        html,
		Tone:               body.Options.Tone,
		Length:             body.Options.Length,
		Structure:          body.Options.Structure,
		WordCount:          wordCount,
		ReadingTimeMinutes: service.EstimateReadingTime(wordCount),
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}

	if err := h.profiles.IncrementUsage(r.Context(), userID); err != nil {
		log.Printf("usage increment failed for %s: %v", userID, err)
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"newsletter": saved})
}

func (h *NewsletterHandler) SubjectLines(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		NewsletterID string `json:"newsletterId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewsletterID == "" {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	n, err := h.newsletters.Get(r.Context(), body.NewsletterID, userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	lines, err := h.ai.GenerateSubjectLines(r.Context(), n.ContentMarkdown, n.Title)
	if err != nil {
		log.Printf("subject line generation failed for newsletter %s: %v", n.ID, err)
		writeAIError(w, err)
		return
	}

	if err := h.newsletters.SetSubjectLines(r.Context(), n.ID, userID, lines); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"subjectLines": lines})
}

func (h *NewsletterHandler) TestEmail(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		NewsletterID   string `json:"newsletterId"`
		RecipientEmail string `json:"recipientEmail"`
		SubjectLine    string `json:"subjectLine"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		body.NewsletterID == "" || !strings.Contains(body.RecipientEmail, "@") {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	n, err := h.newsletters.Get(r.Context(), body.NewsletterID, userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	subject := strings.TrimSpace(body.SubjectLine)
	if subject == "" && n.SelectedSubjectLine != nil {
		subject = *n.SelectedSubjectLine
	}
	if subject == "" {
		subject = "[Test] " + n.Title
	}

	emailID, err := h.resend.SendNewsletter(r.Context(), body.RecipientEmail, subject, n.ContentHTML)
	if err != nil {
		if errors.Is(err, service.ErrEmailDisabled) {
			writeError(w, "email sending is not configured", http.StatusServiceUnavailable)
			return
		}
		log.Printf("test email failed for newsletter %s: %v", n.ID, err)
		writeError(w, "failed to send test email", http.StatusInternalServerError)
		return
	}

	record, err := h.testEmails.Create(r.Context(), &model.TestEmail{
		UserID:         userID,
		NewsletterID:   n.ID,
		RecipientEmail: body.RecipientEmail,
		SubjectLine:    subject,
		EmailID:        &emailID,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "emailId": emailID, "testEmail": record})
}

func (h *NewsletterHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	newsletters, err := h.newsletters.List(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"newsletters": newsletters})
}

func (h *NewsletterHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	n, err := h.newsletters.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"newsletter": n})
}

func (h *NewsletterHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := chi.URLParam(r, "id")
	var body struct {
		Title               *string `json:"title"`
		ContentMarkdown     *string `json:"contentMarkdown"`
		SelectedSubjectLine *string `json:"selectedSubjectLine"`
		Status              *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	patch := repository.NewsletterPatch{
		Title:               body.Title,
		ContentMarkdown:     body.ContentMarkdown,
		SelectedSubjectLine: body.SelectedSubjectLine,
	}

	if body.ContentMarkdown != nil {
		html, err := service.MarkdownToHTML(*body.ContentMarkdown)
		if err != nil {
			writeError(w, "internal error", http.StatusInternalServerError)
			return
		}
		wordCount := service.CountWords(*body.ContentMarkdown)
		readingTime := service.EstimateReadingTime(wordCount)
		patch.ContentHTML = &html
		patch.WordCount = &wordCount
		patch.ReadingTimeMinutes = &readingTime
	}

	if body.Status != nil {
		newRank, ok := statusRank[*body.Status]
		if !ok {
			writeError(w, "invalid status", http.StatusBadRequest)
			return
		}
		current, err := h.newsletters.Get(r.Context(), id, userID)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		if newRank < statusRank[current.Status] {
			writeError(w, "status cannot move backwards", http.StatusBadRequest)
			return
		}
		patch.Status = body.Status
	}

	saved, err := h.newsletters.Update(r.Context(), id, userID, patch)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"newsletter": saved})
}
