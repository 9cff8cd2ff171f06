package service

import (
	"strings"
	"testing"
)

func TestCountWords(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"Hello world", 2},
		{"", 0},
		{"   ", 0},
		{"one\ntwo\tthree  four", 4},
	}
	for _, c := range cases {
		if got := CountWords(c.in); got != c.want {
			t.Errorf("CountWords(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestEstimateReadingTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, c := range cases {
		if got := EstimateReadingTime(c.words); got != c.want {
			t.Errorf("EstimateReadingTime(%d) = %d, want %d", c.words, got, c.want)
		}
	}
}

func TestMarkdownToHTML(t *testing.T) {
	html, err := MarkdownToHTML("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<h1>") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("unexpected html: %q", html)
	}
}
