package service

import (
	"context"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

type fakeMessages struct {
	replies []string
	errs    []error
	calls   int
}

func (f *fakeMessages) New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	reply := ""
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{{Type: "text", Text: reply}},
	}, nil
}

func testClient(fake *fakeMessages) *AIClient {
	return &AIClient{messages: fake, model: defaultCompletionModel}
}

func TestCompleteReturnsText(t *testing.T) {
	fake := &fakeMessages{replies: []string{"hello"}}
	got, err := testClient(fake).Complete(context.Background(), "prompt", "system", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	if fake.calls != 1 {
		t.Fatalf("calls = %d, want 1", fake.calls)
	}
}

func TestCompleteRetriesTransportErrors(t *testing.T) {
	fake := &fakeMessages{
		errs:    []error{errors.New("connection reset"), nil},
		replies: []string{"", "recovered"},
	}
	got, err := testClient(fake).Complete(context.Background(), "prompt", "", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("got %q, want %q", got, "recovered")
	}
	if fake.calls != 2 {
		t.Fatalf("calls = %d, want 2", fake.calls)
	}
}

func TestCompleteGivesUpAfterRetries(t *testing.T) {
	boom := errors.New("boom")
	fake := &fakeMessages{errs: []error{boom, boom, boom}}
	_, err := testClient(fake).Complete(context.Background(), "prompt", "", 100)
	if err == nil {
		t.Fatal("expected error")
	}
	if fake.calls != completionRetries+1 {
		t.Fatalf("calls = %d, want %d", fake.calls, completionRetries+1)
	}
}

func TestAnalyzeContent(t *testing.T) {
	reply := "```json\n" + `{
		"main_topic": "AI agents",
		"sub_topics": ["planning", "tools"],
		"key_takeaways": ["agents need guardrails"],
		"quotes": [],
		"target_audience": "developers",
		"audience_level": "intermediate",
		"pain_points": ["hallucination"],
		"suggested_ctas": ["subscribe"],
		"sentiment": "informative",
		"difficulty": "medium"
	}` + "\n```"
	fake := &fakeMessages{replies: []string{reply}}

	got, err := testClient(fake).AnalyzeContent(context.Background(), "transcript text", "youtube")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MainTopic != "AI agents" {
		t.Fatalf("main topic = %q", got.MainTopic)
	}
	if len(got.SubTopics) != 2 {
		t.Fatalf("sub topics = %v", got.SubTopics)
	}
	if got.Full["audience_level"] != "intermediate" {
		t.Fatalf("full blob missing fields: %v", got.Full)
	}
}

func TestGenerateSubjectLinesMalformed(t *testing.T) {
	fake := &fakeMessages{replies: []string{"I couldn't produce subject lines, sorry."}}
	_, err := testClient(fake).GenerateSubjectLines(context.Background(), "content", "title")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestGenerateNewsletter(t *testing.T) {
	fake := &fakeMessages{replies: []string{`{"title":"Weekly AI","content_markdown":"# Hi\n\nBody."}`}}
	got, err := testClient(fake).GenerateNewsletter(context.Background(),
		map[string]any{"main_topic": "AI"}, "transcript",
		NewsletterOptions{Tone: "casual", Length: "short", Structure: "standard"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Weekly AI" || got.ContentMarkdown == "" {
		t.Fatalf("unexpected result: %+v", got)
	}
}
