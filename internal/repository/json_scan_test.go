package repository

import (
	"testing"

	"github.com/newsletterai/api/internal/model"
)

func TestJSONStringArrayScanner(t *testing.T) {
	var got []string
	s := jsonStringArrayScanner{&got}

	if err := s.Scan([]byte(`["a","b"]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}

	if err := s.Scan(`["c"]`); err != nil {
		t.Fatalf("string input: %v", err)
	}
	if len(got) != 1 || got[0] != "c" {
		t.Fatalf("got %v", got)
	}

	if err := s.Scan(nil); err != nil {
		t.Fatalf("nil input: %v", err)
	}
	if got != nil {
		t.Fatalf("nil input should clear dst, got %v", got)
	}
}

func TestJSONMapScanner(t *testing.T) {
	var got map[string]any
	if err := (jsonMapScanner{&got}).Scan([]byte(`{"score":0.9}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["score"] != 0.9 {
		t.Fatalf("got %v", got)
	}
}

func TestSubjectLinesScanner(t *testing.T) {
	var got []model.SubjectLine
	raw := `[{"text":"Why AI agents matter","style":"curiosity","estimated_open_rate":"32%"}]`
	if err := (subjectLinesScanner{&got}).Scan([]byte(raw)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Style != "curiosity" {
		t.Fatalf("got %+v", got)
	}
	if got[0].EstimatedOpenRate == nil || *got[0].EstimatedOpenRate != "32%" {
		t.Fatalf("estimated open rate not decoded: %+v", got[0])
	}
}

func TestMarshalJSON(t *testing.T) {
	p, err := marshalJSON([]string{"x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || *p != `["x"]` {
		t.Fatalf("got %v", p)
	}

	p, err = marshalJSON(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Fatalf("nil value should map to SQL NULL, got %q", *p)
	}
}
