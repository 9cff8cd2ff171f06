package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Prompt builders. Each returns a single instruction string that embeds
// the JSON-serialized input data, enumerates the required output fields,
// and demands a JSON-only reply. No side effects.

const (
	systemContentAnalyst     = "You are an expert content analyst. Analyze the provided content and extract key information for newsletter creation."
	systemNewsletterWriter   = "You are an expert newsletter writer. Create engaging, well-structured newsletters based on content analysis."
	systemEmailMarketer      = "You are an expert email marketer specializing in subject lines."
	systemMarketingAnalyst   = "You are an expert email marketing analyst who provides actionable insights based on newsletter performance data."
	systemPerformanceOracle  = "You are an expert at predicting email newsletter performance based on historical data and content analysis."
	systemCompetitorAnalyst  = "You are an expert at analyzing competitor newsletters and extracting strategic insights."
	systemContentStrategist  = "You are an expert content strategist who identifies content gaps and opportunities."
	systemIdeaStrategist     = "You are an expert content strategist who generates highly relevant and engaging newsletter ideas."
	systemPersonalizer       = "You are an expert at personalizing newsletter content for different audience segments."
)

func mustJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(b)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func BuildContentAnalysisPrompt(transcript, sourceType string) string {
	return fmt.Sprintf(`Analyze this %s content and provide a detailed analysis in JSON format:

%s

Return a JSON object with:
- main_topic: string (the primary topic)
- sub_topics: array of strings (3-5 subtopics)
- key_takeaways: array of strings (5-7 main points)
- quotes: array of strings (3-5 memorable quotes or statements)
- examples: array of objects with {title, description}
- target_audience: string (who would benefit from this)
- audience_level: string (beginner, intermediate, advanced)
- pain_points: array of strings (problems this content addresses)
- suggested_ctas: array of strings (3 call-to-action ideas)
- sentiment: string (positive, neutral, informative, etc)
- difficulty: string (easy, medium, hard)

Return ONLY valid JSON, no markdown or explanation.`, sourceType, transcript)
}

type NewsletterOptions struct {
	Tone      string `json:"tone"`
	Length    string `json:"length"`
	Structure string `json:"structure"`
}

func BuildNewsletterPrompt(analysis map[string]any, transcript string, opts NewsletterOptions) string {
	return fmt.Sprintf(`Create a newsletter based on this content analysis:

ANALYSIS:
%s

ORIGINAL CONTENT (for reference):
%s

REQUIREMENTS:
- Tone: %s
- Length: %s (short=300-500 words, medium=500-800 words, long=800-1200 words)
- Structure: %s

Return a JSON object with:
- title: string (catchy newsletter title)
- content_markdown: string (full newsletter in markdown format with proper headings, lists, bold, etc)
- word_count: number
- reading_time_minutes: number

Structure guidelines:
- Hook: Start with an engaging opening
- Main content: Organize with clear sections
- Examples: Include relevant examples from the content
- Actionable takeaways: End with clear next steps
- CTA: Include a compelling call-to-action

Return ONLY valid JSON.`,
		mustJSON(analysis), truncate(transcript, 3000), opts.Tone, opts.Length, opts.Structure)
}

func BuildSubjectLinesPrompt(content, title string) string {
	return fmt.Sprintf(`Generate 5 compelling subject lines for this newsletter:

TITLE: %s

CONTENT:
%s

Generate subject lines that are:
- Engaging and curiosity-inducing
- Clear about the value
- Optimized for open rates
- Mix of different styles (question, benefit-driven, curiosity, urgency, personal)

Return a JSON object with:
- subject_lines: array of objects with {text, style, estimated_open_rate}

Return ONLY valid JSON.`, title, truncate(content, 1000))
}

// AnalyticsDataPoint is the per-send summary embedded into the insights
// and prediction prompts.
type AnalyticsDataPoint struct {
	NewsletterTitle string  `json:"newsletter_title"`
	SentCount       int     `json:"sent_count,omitempty"`
	OpenRate        float64 `json:"open_rate"`
	ClickRate       float64 `json:"click_rate"`
	SentDate        string  `json:"sent_date"`
}

func BuildInsightsPrompt(data []AnalyticsDataPoint) string {
	return fmt.Sprintf(`Analyze this newsletter performance data and provide actionable insights:

DATA:
%s

Generate 5-8 insights covering:
1. TOPIC PERFORMANCE: Which topics/themes get best engagement
2. TIMING OPTIMIZATION: Best days/times to send
3. SUBJECT LINE PATTERNS: What works in subject lines
4. CONTENT LENGTH: Optimal newsletter length
5. ENGAGEMENT TRENDS: Overall trends over time
6. ACTIONABLE RECOMMENDATIONS: Specific next steps

For each insight, provide:
- insight_type: category (topic_performance, timing, subject_line, etc)
- insight_text: Clear, actionable insight (1-2 sentences)
- data_points: Supporting evidence from the data
- confidence_score: 0.0-1.0 (how confident you are)
- recommendation: Specific action to take

Return a JSON array of insights:
[
  {
    "insight_type": "topic_performance",
    "insight_text": "Your AI-related newsletters get 2.3x higher open rates",
    "data_points": ["AI newsletter: 45%% open rate", "Marketing newsletter: 19%% open rate"],
    "confidence_score": 0.9,
    "recommendation": "Focus more on AI topics in upcoming newsletters"
  }
]

Return ONLY valid JSON array.`, mustJSON(data))
}

type PredictionSubject struct {
	Title       string
	SubjectLine string
	Tone        string
	Length      string
	WordCount   int
	Structure   string
}

func BuildPredictionPrompt(subject PredictionSubject, history []AnalyticsDataPoint) string {
	return fmt.Sprintf(`Predict the performance of this newsletter based on historical data:

NEWSLETTER TO PREDICT:
Title: %s
Subject Line: %s
Tone: %s
Length: %s (word count: %d)
Structure: %s

HISTORICAL PERFORMANCE:
%s

Analyze and predict:
1. Expected open rate (with confidence interval)
2. Expected click rate (with confidence interval)
3. Engagement score (1-10)
4. Risk factors (what might hurt performance)
5. Opportunities (what might boost performance)
6. Specific recommendations to improve

Return JSON:
{
  "predicted_open_rate": number,
  "open_rate_range": [min, max],
  "predicted_click_rate": number,
  "click_rate_range": [min, max],
  "engagement_score": number (1-10),
  "confidence": number (0.0-1.0),
  "risk_factors": ["factor 1", "factor 2"],
  "opportunities": ["opportunity 1", "opportunity 2"],
  "recommendations": [
    {
      "category": "subject_line | content | timing | structure",
      "recommendation": "specific action",
      "expected_impact": "%% improvement"
    }
  ]
}

Return ONLY valid JSON.`,
		subject.Title, subject.SubjectLine, subject.Tone, subject.Length,
		subject.WordCount, subject.Structure, mustJSON(history))
}

func BuildCompetitorAnalysisPrompt(subjectLine, content string) string {
	return fmt.Sprintf(`Analyze this competitor newsletter and provide strategic insights:

SUBJECT LINE: %s

CONTENT:
%s

Analyze and extract:
1. MAIN TOPICS: What are they writing about?
2. ANGLE/PERSPECTIVE: What's their unique take?
3. STRUCTURE: How is the content organized?
4. TONE & VOICE: Professional, casual, technical?
5. CTAs: What actions do they want readers to take?
6. MARKETING TACTICS: Urgency, social proof, scarcity, etc?
7. STRENGTHS: What they do really well
8. WEAKNESSES: Where we can outperform them
9. OUR RESPONSE STRATEGY: How should we respond?

Return JSON:
{
  "main_topics": ["topic 1", "topic 2"],
  "angle": "their unique perspective",
  "structure": "how content is organized",
  "tone": "professional | casual | technical | friendly",
  "ctas": ["CTA 1", "CTA 2"],
  "marketing_tactics": ["tactic 1", "tactic 2"],
  "strengths": ["strength 1", "strength 2"],
  "weaknesses": ["weakness 1", "weakness 2"],
  "response_strategy": "how we should respond to this",
  "overall_quality_score": number (1-10)
}

Return ONLY valid JSON.`, subjectLine, truncate(content, 3000))
}

func BuildContentGapsPrompt(userTopics []string, competitorTopics any, trendingTopics []string) string {
	return fmt.Sprintf(`Analyze these topics and find content gaps/opportunities:

USER'S PAST TOPICS:
%s

COMPETITOR TOPICS:
%s

TRENDING TOPICS:
%s

Identify 5-10 content gaps that are:
1. UNCOVERED HIGH-VALUE: Topics competitors write about (or trending) that user hasn't covered
2. TRENDING OPPORTUNITIES: Currently trending topics user hasn't written about yet
3. COMPETITOR RESPONSE: Recent competitor topics where user can create better version

For each gap:
- topic: The topic/theme
- gap_type: "uncovered_high_value" | "trending_opportunity" | "competitor_response"
- description: Why this is valuable (1-2 sentences)
- suggested_angle: How to approach it uniquely
- urgency: "high" | "medium" | "low"
- priority_score: 0.0-1.0
- rationale: Data supporting why this is a gap

Return ONLY valid JSON array.`,
		mustJSON(userTopics), mustJSON(competitorTopics), mustJSON(trendingTopics))
}

type IdeaGenerationContext struct {
	Niche     string `json:"niche"`
	Audience  string `json:"audience"`
	Goals     string `json:"goals"`
	Frequency string `json:"frequency"`
}

func BuildWeeklyIdeasPrompt(uc IdeaGenerationContext) string {
	return fmt.Sprintf(`Generate 52 weekly newsletter ideas for the following context:

NICHE: %s
AUDIENCE: %s
GOALS: %s
FREQUENCY: %s

Requirements for each idea:
- Mix of different content types (educational, trending, seasonal, case studies, how-to)
- Timely and relevant throughout the year
- Consider seasonal events and trends
- Balance between evergreen and timely topics
- Prioritize based on value and urgency

Return a JSON array with 52 objects, each containing:
- week: number (1-52)
- topic: string (concise topic)
- suggested_headline: string (compelling headline)
- angle: string (unique perspective or approach)
- outline: string (brief 3-5 point outline)
- category: string (educational, trend, seasonal, case_study, how_to, etc)
- difficulty: string (easy, medium, hard)
- urgency: string (high, medium, low)
- priority_score: number (0.0-1.0, higher = more priority)
- rationale: string (why this topic is valuable)
- best_month: string (recommended month to publish)

Return ONLY valid JSON array.`, uc.Niche, uc.Audience, uc.Goals, uc.Frequency)
}

type SegmentProfile struct {
	Name        string
	Description string
	Interests   []string
	Behavior    []string
}

func BuildVariantPrompt(title, contentMarkdown string, seg SegmentProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `Personalize this newsletter for the following audience segment:

SEGMENT: %s
DESCRIPTION: %s
INTERESTS: %s
BEHAVIOR: %s

ORIGINAL NEWSLETTER:
Title: %s
Content: %s

Create a personalized version that:
1. Adjusts vocabulary and tone to match the segment
2. Includes examples relevant to their interests
3. Modifies technical depth based on their level
4. Adjusts CTAs to their behavior patterns

Return a JSON object with:
{
  "subject_line": "personalized subject line",
  "content_markdown": "full personalized newsletter in markdown",
  "changes_description": ["list of 3-5 key changes made"],
  "predicted_performance": {
    "open_rate_lift": "estimated %% improvement",
    "engagement_score": "1-10 score"
  }
}

Return ONLY valid JSON.`,
		seg.Name, seg.Description, mustJSON(seg.Interests), mustJSON(seg.Behavior),
		title, contentMarkdown)
	return sb.String()
}
