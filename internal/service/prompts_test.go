package service

import (
	"strings"
	"testing"
)

func TestBuildContentAnalysisPromptEmbedsContent(t *testing.T) {
	p := BuildContentAnalysisPrompt("the transcript body", "youtube")
	if !strings.Contains(p, "the transcript body") {
		t.Fatal("transcript missing from prompt")
	}
	if !strings.Contains(p, "youtube content") {
		t.Fatal("source type missing from prompt")
	}
	if !strings.Contains(p, "Return ONLY valid JSON") {
		t.Fatal("JSON-only instruction missing")
	}
}

func TestBuildNewsletterPromptTruncatesTranscript(t *testing.T) {
	long := strings.Repeat("x", 5000)
	p := BuildNewsletterPrompt(map[string]any{"main_topic": "AI"}, long,
		NewsletterOptions{Tone: "casual", Length: "short", Structure: "standard"})
	if strings.Contains(p, long) {
		t.Fatal("transcript should be truncated")
	}
	if !strings.Contains(p, strings.Repeat("x", 3000)+"...") {
		t.Fatal("truncation marker missing")
	}
	if !strings.Contains(p, "Tone: casual") {
		t.Fatal("options missing from prompt")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Fatalf("got %q", got)
	}
}

func TestBuildWeeklyIdeasPrompt(t *testing.T) {
	p := BuildWeeklyIdeasPrompt(IdeaGenerationContext{
		Niche: "AI tooling", Audience: "developers", Goals: "grow list", Frequency: "weekly",
	})
	if !strings.Contains(p, "52 weekly newsletter ideas") {
		t.Fatal("idea count missing")
	}
	if !strings.Contains(p, "NICHE: AI tooling") {
		t.Fatal("niche missing")
	}
}
