package service

import "testing"

func TestPlanUsageLimit(t *testing.T) {
	b := NewBillingClient()
	cases := []struct {
		tier string
		want int
	}{
		{PlanFree, 2},
		{PlanBasic, 10},
		{PlanPro, -1},
		{"enterprise", FreeUsageLimit},
	}
	for _, c := range cases {
		if got := b.PlanUsageLimit(c.tier); got != c.want {
			t.Errorf("PlanUsageLimit(%q) = %d, want %d", c.tier, got, c.want)
		}
	}
}

func TestPlansCatalog(t *testing.T) {
	b := NewBillingClient()
	plans := b.Plans()
	if len(plans) != 3 {
		t.Fatalf("got %d plans, want 3", len(plans))
	}
	if plans[0].Tier != PlanFree || plans[0].PriceUSD != 0 {
		t.Fatalf("unexpected first plan: %+v", plans[0])
	}
}
