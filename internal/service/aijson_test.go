package service

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSONBare(t *testing.T) {
	in := `{"main_topic":"AI","sub_topics":["agents","RAG"]}`
	got, err := ExtractJSON(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != in {
		t.Fatalf("got %q, want %q", got, in)
	}
}

func TestExtractJSONRoundTrip(t *testing.T) {
	orig := map[string]any{"title": "Weekly AI", "word_count": float64(42)}
	b, _ := json.Marshal(orig)

	for _, raw := range []string{
		string(b),
		"```json\n" + string(b) + "\n```",
		"```\n" + string(b) + "\n```",
		"Here is the result:\n```json\n" + string(b) + "\n```\nLet me know if you need changes.",
	} {
		var decoded map[string]any
		if err := DecodeResponse(raw, &decoded); err != nil {
			t.Fatalf("DecodeResponse(%q): %v", raw, err)
		}
		if decoded["title"] != orig["title"] || decoded["word_count"] != orig["word_count"] {
			t.Fatalf("round trip mismatch: got %v, want %v", decoded, orig)
		}
	}
}

func TestExtractJSONWhitespace(t *testing.T) {
	if _, err := ExtractJSON("  \n {\"a\":1} \n "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractJSONMalformed(t *testing.T) {
	for _, raw := range []string{
		"not json at all",
		"```json\nstill not json\n```",
		"",
	} {
		_, err := ExtractJSON(raw)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("ExtractJSON(%q) = %v, want ErrMalformedResponse", raw, err)
		}
	}
}

func TestDecodeResponseTypeMismatch(t *testing.T) {
	var dst struct {
		Count int `json:"count"`
	}
	err := DecodeResponse(`{"count":"three"}`, &dst)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}
