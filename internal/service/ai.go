package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/newsletterai/api/internal/model"
)

// Workflow-facing AI operations. Each one builds its prompt, calls the
// completion API, and decodes the JSON reply into a typed result.

type ContentAnalysisResult struct {
	MainTopic      string   `json:"main_topic"`
	SubTopics      []string `json:"sub_topics"`
	KeyTakeaways   []string `json:"key_takeaways"`
	Quotes         []string `json:"quotes"`
	TargetAudience string   `json:"target_audience"`
	AudienceLevel  string   `json:"audience_level"`
	PainPoints     []string `json:"pain_points"`
	SuggestedCTAs  []string `json:"suggested_ctas"`
	Sentiment      string   `json:"sentiment"`
	Difficulty     string   `json:"difficulty"`

	// Full carries the entire reply object, persisted as the opaque
	// full_analysis blob alongside the named columns.
	Full map[string]any `json:"-"`
}

func (c *AIClient) AnalyzeContent(ctx context.Context, transcript, sourceType string) (*ContentAnalysisResult, error) {
	raw, err := c.Complete(ctx, BuildContentAnalysisPrompt(transcript, sourceType), systemContentAnalyst, 4000)
	if err != nil {
		return nil, err
	}
	b, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var result ContentAnalysisResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(b, &result.Full); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &result, nil
}

type GeneratedNewsletter struct {
	Title           string `json:"title"`
	ContentMarkdown string `json:"content_markdown"`
}

func (c *AIClient) GenerateNewsletter(ctx context.Context, analysis map[string]any, transcript string, opts NewsletterOptions) (*GeneratedNewsletter, error) {
	raw, err := c.Complete(ctx, BuildNewsletterPrompt(analysis, transcript, opts), systemNewsletterWriter, 6000)
	if err != nil {
		return nil, err
	}
	var result GeneratedNewsletter
	if err := DecodeResponse(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AIClient) GenerateSubjectLines(ctx context.Context, content, title string) ([]model.SubjectLine, error) {
	raw, err := c.Complete(ctx, BuildSubjectLinesPrompt(content, title), systemEmailMarketer, 2000)
	if err != nil {
		return nil, err
	}
	var result struct {
		SubjectLines []model.SubjectLine `json:"subject_lines"`
	}
	if err := DecodeResponse(raw, &result); err != nil {
		return nil, err
	}
	return result.SubjectLines, nil
}

type InsightResult struct {
	InsightType     string   `json:"insight_type"`
	InsightText     string   `json:"insight_text"`
	DataPoints      []string `json:"data_points"`
	ConfidenceScore float64  `json:"confidence_score"`
	Recommendation  string   `json:"recommendation"`
}

func (c *AIClient) GenerateInsights(ctx context.Context, data []AnalyticsDataPoint) ([]InsightResult, error) {
	raw, err := c.Complete(ctx, BuildInsightsPrompt(data), systemMarketingAnalyst, 4000)
	if err != nil {
		return nil, err
	}
	var insights []InsightResult
	if err := DecodeResponse(raw, &insights); err != nil {
		return nil, err
	}
	return insights, nil
}

type PredictionRecommendation struct {
	Category       string `json:"category"`
	Recommendation string `json:"recommendation"`
	ExpectedImpact string `json:"expected_impact"`
}

type PredictionResult struct {
	PredictedOpenRate  float64                    `json:"predicted_open_rate"`
	OpenRateRange      []float64                  `json:"open_rate_range"`
	PredictedClickRate float64                    `json:"predicted_click_rate"`
	ClickRateRange     []float64                  `json:"click_rate_range"`
	EngagementScore    float64                    `json:"engagement_score"`
	Confidence         float64                    `json:"confidence"`
	RiskFactors        []string                   `json:"risk_factors"`
	Opportunities      []string                   `json:"opportunities"`
	Recommendations    []PredictionRecommendation `json:"recommendations"`
}

func (c *AIClient) PredictPerformance(ctx context.Context, subject PredictionSubject, history []AnalyticsDataPoint) (*PredictionResult, error) {
	raw, err := c.Complete(ctx, BuildPredictionPrompt(subject, history), systemPerformanceOracle, 3000)
	if err != nil {
		return nil, err
	}
	var result PredictionResult
	if err := DecodeResponse(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type CompetitorAnalysisResult struct {
	MainTopics          []string `json:"main_topics"`
	Angle               string   `json:"angle"`
	Structure           string   `json:"structure"`
	Tone                string   `json:"tone"`
	CTAs                []string `json:"ctas"`
	MarketingTactics    []string `json:"marketing_tactics"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	ResponseStrategy    string   `json:"response_strategy"`
	OverallQualityScore float64  `json:"overall_quality_score"`

	Full map[string]any `json:"-"`
}

func (c *AIClient) AnalyzeCompetitorNewsletter(ctx context.Context, subjectLine, content string) (*CompetitorAnalysisResult, error) {
	raw, err := c.Complete(ctx, BuildCompetitorAnalysisPrompt(subjectLine, content), systemCompetitorAnalyst, 3000)
	if err != nil {
		return nil, err
	}
	b, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var result CompetitorAnalysisResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(b, &result.Full); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &result, nil
}

type ContentGapResult struct {
	Topic          string         `json:"topic"`
	GapType        string         `json:"gap_type"`
	Description    string         `json:"description"`
	SuggestedAngle string         `json:"suggested_angle"`
	Urgency        string         `json:"urgency"`
	PriorityScore  float64        `json:"priority_score"`
	Rationale      map[string]any `json:"rationale"`
}

func (c *AIClient) FindContentGaps(ctx context.Context, userTopics []string, competitorTopics any, trendingTopics []string) ([]ContentGapResult, error) {
	raw, err := c.Complete(ctx, BuildContentGapsPrompt(userTopics, competitorTopics, trendingTopics), systemContentStrategist, 4000)
	if err != nil {
		return nil, err
	}
	var gaps []ContentGapResult
	if err := DecodeResponse(raw, &gaps); err != nil {
		return nil, err
	}
	return gaps, nil
}

type WeeklyIdeaResult struct {
	Week              int     `json:"week"`
	Topic             string  `json:"topic"`
	SuggestedHeadline string  `json:"suggested_headline"`
	Angle             string  `json:"angle"`
	Outline           string  `json:"outline"`
	Category          string  `json:"category"`
	Difficulty        string  `json:"difficulty"`
	Urgency           string  `json:"urgency"`
	PriorityScore     float64 `json:"priority_score"`
	Rationale         string  `json:"rationale"`
	BestMonth         string  `json:"best_month"`
}

func (c *AIClient) GenerateWeeklyIdeas(ctx context.Context, uc IdeaGenerationContext) ([]WeeklyIdeaResult, error) {
	raw, err := c.Complete(ctx, BuildWeeklyIdeasPrompt(uc), systemIdeaStrategist, 8000)
	if err != nil {
		return nil, err
	}
	var ideas []WeeklyIdeaResult
	if err := DecodeResponse(raw, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

type VariantResult struct {
	SubjectLine          string         `json:"subject_line"`
	ContentMarkdown      string         `json:"content_markdown"`
	ChangesDescription   []string       `json:"changes_description"`
	PredictedPerformance map[string]any `json:"predicted_performance"`
}

func (c *AIClient) PersonalizeNewsletter(ctx context.Context, title, contentMarkdown string, seg SegmentProfile) (*VariantResult, error) {
	raw, err := c.Complete(ctx, BuildVariantPrompt(title, contentMarkdown, seg), systemPersonalizer, 6000)
	if err != nil {
		return nil, err
	}
	var result VariantResult
	if err := DecodeResponse(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
