package handler

import (
	"testing"
	"time"

	"github.com/newsletterai/api/internal/model"
)

func TestComputeRate(t *testing.T) {
	cases := []struct {
		count     int
		delivered int
		want      float64
	}{
		{300, 950, 31.58},
		{60, 950, 6.32},
		{0, 950, 0},
		{300, 0, 0},
		{10, 0, 0},
		{950, 950, 100},
		{1, 3, 33.33},
	}
	for _, c := range cases {
		if got := computeRate(c.count, c.delivered); got != c.want {
			t.Errorf("computeRate(%d, %d) = %v, want %v", c.count, c.delivered, got, c.want)
		}
	}
}

func TestAnalyticsDataPoints(t *testing.T) {
	sent := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	rows := []model.NewsletterAnalytics{
		{Title: "Issue #1", SentCount: 1000, OpenRate: 31.58, ClickRate: 6.32, SentAt: sent},
	}
	points := analyticsDataPoints(rows)
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	p := points[0]
	if p.NewsletterTitle != "Issue #1" || p.SentDate != "2024-03-15" {
		t.Fatalf("unexpected point: %+v", p)
	}
	if p.OpenRate != 31.58 || p.ClickRate != 6.32 {
		t.Fatalf("rates not carried through: %+v", p)
	}
}
