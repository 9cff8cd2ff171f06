package handler

import "testing"

func TestStatusRankForwardOnly(t *testing.T) {
	allowed := []struct{ from, to string }{
		{"draft", "draft"},
		{"draft", "ready"},
		{"draft", "sent"},
		{"ready", "sent"},
		{"sent", "sent"},
	}
	for _, c := range allowed {
		if statusRank[c.to] < statusRank[c.from] {
			t.Errorf("%s -> %s should be allowed", c.from, c.to)
		}
	}

	blocked := []struct{ from, to string }{
		{"ready", "draft"},
		{"sent", "ready"},
		{"sent", "draft"},
	}
	for _, c := range blocked {
		if statusRank[c.to] >= statusRank[c.from] {
			t.Errorf("%s -> %s should be blocked", c.from, c.to)
		}
	}
}

func TestStatusRankRejectsUnknown(t *testing.T) {
	if _, ok := statusRank["archived"]; ok {
		t.Fatal("unknown status should not be ranked")
	}
}
