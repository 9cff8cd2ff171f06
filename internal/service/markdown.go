package service

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// MarkdownToHTML renders newsletter markdown to the HTML stored next to
// it. The markdown column stays canonical; the HTML is rederived on
// every write.
func MarkdownToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CountWords counts whitespace-separated tokens.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// EstimateReadingTime assumes 200 words per minute, rounded up, with a
// one minute floor for non-empty content.
func EstimateReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + 199) / 200
}
