package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/newsletterai/api/internal/model"
)

// TrendTTL is how long a fetched batch of trending topics stays fresh.
const TrendTTL = 24 * time.Hour

// TrendsProvider fetches trending topics from the Google Trends API via
// SerpAPI. Without an API key it serves a curated fallback list so the
// gap-detection and idea flows keep working in development.
type TrendsProvider struct {
	apiKey string
	http   *http.Client
}

func NewTrendsProvider() *TrendsProvider {
	return &TrendsProvider{
		apiKey: os.Getenv("SERPAPI_API_KEY"),
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *TrendsProvider) FetchTrends(ctx context.Context, keywords []string) []model.TrendingTopic {
	if p.apiKey == "" || len(keywords) == 0 {
		return fallbackTrends()
	}

	now := time.Now()
	topics := make([]model.TrendingTopic, 0, len(keywords))
	for _, kw := range keywords {
		t, err := p.fetchKeyword(ctx, kw)
		if err != nil {
			continue
		}
		t.ExpiresAt = now.Add(TrendTTL)
		topics = append(topics, *t)
	}
	if len(topics) == 0 {
		return fallbackTrends()
	}
	return topics
}

type serpTrendsResponse struct {
	InterestOverTime struct {
		TimelineData []struct {
			Values []struct {
				ExtractedValue int `json:"extracted_value"`
			} `json:"values"`
		} `json:"timeline_data"`
	} `json:"interest_over_time"`
}

func (p *TrendsProvider) fetchKeyword(ctx context.Context, keyword string) (*model.TrendingTopic, error) {
	q := url.Values{}
	q.Set("engine", "google_trends")
	q.Set("q", keyword)
	q.Set("api_key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://serpapi.com/search.json?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("serpapi: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	var parsed serpTrendsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	points := parsed.InterestOverTime.TimelineData
	var avg, growth float64
	if len(points) > 0 {
		var sum int
		for _, pt := range points {
			if len(pt.Values) > 0 {
				sum += pt.Values[0].ExtractedValue
			}
		}
		avg = float64(sum) / float64(len(points))
		first, last := points[0], points[len(points)-1]
		if len(first.Values) > 0 && len(last.Values) > 0 && first.Values[0].ExtractedValue > 0 {
			growth = float64(last.Values[0].ExtractedValue-first.Values[0].ExtractedValue) /
				float64(first.Values[0].ExtractedValue) * 100
		}
	}

	return &model.TrendingTopic{
		Topic:          keyword,
		Source:         "google_trends",
		SearchVolume:   int(avg),
		GrowthRate:     growth,
		Category:       "search",
		RelevanceScore: 0.5,
	}, nil
}

func fallbackTrends() []model.TrendingTopic {
	expires := time.Now().Add(TrendTTL)
	seed := []model.TrendingTopic{
		{Topic: "AI Agents", SearchVolume: 50000, GrowthRate: 150, Category: "Technology", RelevanceScore: 0.9},
		{Topic: "GPT-4 Turbo", SearchVolume: 35000, GrowthRate: 120, Category: "AI", RelevanceScore: 0.95},
		{Topic: "Vector Databases", SearchVolume: 25000, GrowthRate: 180, Category: "Database", RelevanceScore: 0.85},
		{Topic: "RAG Applications", SearchVolume: 20000, GrowthRate: 200, Category: "AI", RelevanceScore: 0.8},
		{Topic: "Custom GPTs", SearchVolume: 45000, GrowthRate: 300, Category: "AI", RelevanceScore: 0.92},
	}
	for i := range seed {
		seed[i].Source = "curated"
		seed[i].ExpiresAt = expires
	}
	return seed
}
