package model

import "time"

// UserProfile is the account record behind every authenticated request.
// The id comes from the auth provider; billing fields mirror Stripe.
type UserProfile struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	FullName             *string    `json:"full_name,omitempty"`
	Company              *string    `json:"company,omitempty"`
	PlanTier             string     `json:"plan_tier"` // free | basic | pro
	StripeCustomerID     *string    `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id,omitempty"`
	SubscriptionStatus   *string    `json:"subscription_status,omitempty"`
	UsageCount           int        `json:"usage_count"`
	UsageLimit           int        `json:"usage_limit"` // -1 = unlimited
	UsageResetDate       *time.Time `json:"usage_reset_date,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type ContentSource struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Type            string     `json:"type"` // youtube | blog | text | podcast
	URL             *string    `json:"url,omitempty"`
	Title           string     `json:"title"`
	Transcript      string     `json:"transcript"`
	WordCount       int        `json:"word_count"`
	DurationMinutes int        `json:"duration_minutes"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type ContentAnalysis struct {
	ID              string         `json:"id"`
	ContentSourceID string         `json:"content_source_id"`
	UserID          string         `json:"user_id"`
	MainTopic       string         `json:"main_topic"`
	SubTopics       []string       `json:"sub_topics"`
	KeyTakeaways    []string       `json:"key_takeaways"`
	Quotes          []string       `json:"quotes"`
	TargetAudience  string         `json:"target_audience"`
	AudienceLevel   string         `json:"audience_level"`
	PainPoints      []string       `json:"pain_points"`
	SuggestedCTAs   []string       `json:"suggested_ctas"`
	Sentiment       string         `json:"sentiment"`
	Difficulty      string         `json:"difficulty"`
	FullAnalysis    map[string]any `json:"full_analysis"`
	CreatedAt       time.Time      `json:"created_at"`
}

// SubjectLine is one AI-suggested candidate stored on a newsletter.
type SubjectLine struct {
	Text              string  `json:"text"`
	Style             string  `json:"style"`
	EstimatedOpenRate *string `json:"estimated_open_rate,omitempty"`
}

type Newsletter struct {
	ID                  string        `json:"id"`
	UserID              string        `json:"user_id"`
	ContentSourceID     *string       `json:"content_source_id,omitempty"`
	AnalysisID          *string       `json:"analysis_id,omitempty"`
	Title               string        `json:"title"`
	SubjectLines        []SubjectLine `json:"subject_lines,omitempty"`
	SelectedSubjectLine *string       `json:"selected_subject_line,omitempty"`
	ContentMarkdown     string        `json:"content_markdown"`
	ContentHTML         string        `json:"content_html"`
	Tone                string        `json:"tone"`
	Length              string        `json:"length"` // short | medium | long
	Structure           string        `json:"structure"`
	WordCount           int           `json:"word_count"`
	ReadingTimeMinutes  int           `json:"reading_time_minutes"`
	Status              string        `json:"status"` // draft | ready | sent
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

type NewsletterAnalytics struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	NewsletterID     *string   `json:"newsletter_id,omitempty"`
	Title            string    `json:"title"`
	SentCount        int       `json:"sent_count"`
	DeliveredCount   int       `json:"delivered_count"`
	OpenCount        int       `json:"open_count"`
	ClickCount       int       `json:"click_count"`
	UnsubscribeCount int       `json:"unsubscribe_count"`
	BounceCount      int       `json:"bounce_count"`
	OpenRate         float64   `json:"open_rate"`
	ClickRate        float64   `json:"click_rate"`
	SentAt           time.Time `json:"sent_at"`
	CreatedAt        time.Time `json:"created_at"`
}

type PerformanceInsight struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	InsightType     string    `json:"insight_type"`
	InsightText     string    `json:"insight_text"`
	DataPoints      []string  `json:"data_points"`
	ConfidenceScore float64   `json:"confidence_score"`
	Recommendation  *string   `json:"recommendation,omitempty"`
	Actionable      bool      `json:"actionable"`
	CreatedAt       time.Time `json:"created_at"`
}

type Competitor struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	NewsletterName *string   `json:"newsletter_name,omitempty"`
	WebsiteURL     *string   `json:"website_url,omitempty"`
	ArchiveURL     *string   `json:"archive_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type CompetitorNewsletter struct {
	ID           string         `json:"id"`
	CompetitorID string         `json:"competitor_id"`
	SubjectLine  string         `json:"subject_line"`
	ContentText  *string        `json:"content_text,omitempty"`
	ContentHTML  *string        `json:"content_html,omitempty"`
	SendDate     *time.Time     `json:"send_date,omitempty"`
	ScrapedAt    time.Time      `json:"scraped_at"`
	Analysis     map[string]any `json:"analysis,omitempty"`
}

type ContentGap struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Topic           string         `json:"topic"`
	Description     string         `json:"description"`
	OpportunityType string         `json:"opportunity_type"` // uncovered_high_value | trending_opportunity | competitor_response
	SuggestedAngle  *string        `json:"suggested_angle,omitempty"`
	Rationale       map[string]any `json:"rationale,omitempty"`
	PriorityScore   float64        `json:"priority_score"`
	Urgency         string         `json:"urgency"` // high | medium | low
	Status          string         `json:"status"`  // open | dismissed | used
	CreatedAt       time.Time      `json:"created_at"`
}

type ContentIdea struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id"`
	Topic             string         `json:"topic"`
	SuggestedHeadline string         `json:"suggested_headline"`
	Angle             string         `json:"angle"`
	Outline           string         `json:"outline"`
	Category          string         `json:"category"`
	Difficulty        string         `json:"difficulty"`
	Urgency           string         `json:"urgency"`
	PriorityScore     float64        `json:"priority_score"`
	Rationale         map[string]any `json:"rationale,omitempty"`
	Status            string         `json:"status"` // suggested | scheduled | used
	CreatedAt         time.Time      `json:"created_at"`
}

type AudienceSegment struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Name         string         `json:"name"`
	Description  *string        `json:"description,omitempty"`
	Criteria     map[string]any `json:"criteria,omitempty"`
	SizeEstimate *int           `json:"size_estimate,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type NewsletterVariant struct {
	ID                   string         `json:"id"`
	NewsletterID         string         `json:"newsletter_id"`
	SegmentID            string         `json:"segment_id"`
	VariantName          string         `json:"variant_name"`
	SubjectLine          string         `json:"subject_line"`
	ContentMarkdown      string         `json:"content_markdown"`
	ContentHTML          string         `json:"content_html"`
	ChangesDescription   string         `json:"changes_description"`
	PredictedPerformance map[string]any `json:"predicted_performance,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
}

type TrendingTopic struct {
	ID             string    `json:"id"`
	Topic          string    `json:"topic"`
	Source         string    `json:"source"`
	SearchVolume   int       `json:"search_volume"`
	GrowthRate     float64   `json:"growth_rate"`
	Category       string    `json:"category"`
	RelevanceScore float64   `json:"relevance_score"`
	ExpiresAt      time.Time `json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
}

type TestEmail struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	NewsletterID   string    `json:"newsletter_id"`
	RecipientEmail string    `json:"recipient_email"`
	SubjectLine    string    `json:"subject_line"`
	EmailID        *string   `json:"email_id,omitempty"`
	SentAt         time.Time `json:"sent_at"`
}
