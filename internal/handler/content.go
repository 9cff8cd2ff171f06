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

type ContentHandler struct {
	sources  *repository.ContentSourceRepo
	analyses *repository.AnalysisRepo
	ai       *service.AIClient
	importer *service.Importer
}

func NewContentHandler(
	sources *repository.ContentSourceRepo,
	analyses *repository.AnalysisRepo,
	ai *service.AIClient,
	importer *service.Importer,
) *ContentHandler {
	return &ContentHandler{sources: sources, analyses: analyses, ai: ai, importer: importer}
}

func (h *ContentHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		Type  string `json:"type"`
		URL   string `json:"url"`
		Text  string `json:"text"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	body.Type = strings.ToLower(strings.TrimSpace(body.Type))
	body.URL = strings.TrimSpace(body.URL)

	src := model.ContentSource{
		UserID: userID,
		Type:   body.Type,
		Title:  strings.TrimSpace(body.Title),
	}

	switch body.Type {
	case "youtube":
		videoID, ok := service.ExtractYouTubeVideoID(body.URL)
		if !ok {
			writeError(w, "invalid YouTube URL", http.StatusBadRequest)
			return
		}
		transcript, err := h.importer.FetchYouTubeTranscript(r.Context(), videoID)
		if err != nil {
			if errors.Is(err, service.ErrNoTranscript) {
				writeError(w, "video has no transcript", http.StatusUnprocessableEntity)
				return
			}
			log.Printf("youtube import failed for %s: %v", videoID, err)
			writeError(w, "failed to fetch transcript", http.StatusInternalServerError)
			return
		}
		src.URL = &body.URL
		src.Transcript = transcript.Text
		src.DurationMinutes = transcript.DurationMinutes
		if src.Title == "" {
			src.Title = "YouTube: " + videoID
		}

	case "blog":
		if body.URL == "" {
			writeError(w, "url is required", http.StatusBadRequest)
			return
		}
		article, err := h.importer.ScrapeArticle(r.Context(), body.URL)
		if err != nil {
			log.Printf("blog import failed for %s: %v", body.URL, err)
			writeError(w, "failed to fetch article", http.StatusUnprocessableEntity)
			return
		}
		src.URL = &body.URL
		src.Transcript = article.Text
		if src.Title == "" {
			src.Title = article.Title
		}

	case "text", "podcast":
		if strings.TrimSpace(body.Text) == "" {
			writeError(w, "text is required", http.StatusBadRequest)
			return
		}
		src.Transcript = body.Text
		if src.Title == "" {
			src.Title = "Pasted content"
		}

	default:
		writeError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	src.WordCount = service.CountWords(src.Transcript)

	saved, err := h.sources.Create(r.Context(), &src)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"contentSource": saved})
}

func (h *ContentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var body struct {
		ContentSourceID string `json:"contentSourceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ContentSourceID == "" {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	src, err := h.sources.Get(r.Context(), body.ContentSourceID, userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	result, err := h.ai.AnalyzeContent(r.Context(), src.Transcript, src.Type)
	if err != nil {
		log.Printf("content analysis failed for source %s: %v", src.ID, err)
		writeAIError(w, err)
		return
	}

	saved, err := h.analyses.Create(r.Context(), &model.ContentAnalysis{
		ContentSourceID: src.ID,
		UserID:          userID,
		MainTopic:       result.MainTopic,
		SubTopics:       result.SubTopics,
		KeyTakeaways:    result.KeyTakeaways,
		Quotes:          result.Quotes,
		TargetAudience:  result.TargetAudience,
		AudienceLevel:   result.AudienceLevel,
		PainPoints:      result.PainPoints,
		SuggestedCTAs:   result.SuggestedCTAs,
		Sentiment:       result.Sentiment,
		Difficulty:      result.Difficulty,
		FullAnalysis:    result.Full,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"analysis": saved})
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	sources, err := h.sources.List(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"contentSources": sources})
}

func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := chi.URLParam(r, "id")

	src, err := h.sources.Get(r.Context(), id, userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	analyses, err := h.analyses.ListBySource(r.Context(), id, userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"contentSource": src, "analyses": analyses})
}
