package premium_test

import (
	"context"
	"testing"

	"decidemate/internal/kv"
	"decidemate/internal/premium"
)

type fixedCount int

func (c fixedCount) GetCount(context.Context) (int, error) { return int(c), nil }

func TestIsPremiumDefaultsFalse(t *testing.T) {
	g := premium.New(kv.NewMemory(), fixedCount(0))
	got, err := g.IsPremium(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Fatal("fresh journal must not be premium")
	}
}

func TestSetPremiumRoundTrip(t *testing.T) {
	g := premium.New(kv.NewMemory(), fixedCount(0))
	ctx := context.Background()
	if err := g.SetPremium(ctx, true); err != nil {
		t.Fatal(err)
	}
	got, err := g.IsPremium(ctx)
	if err != nil || !got {
		t.Fatalf("expected premium after set, got %v err %v", got, err)
	}
	if err := g.SetPremium(ctx, false); err != nil {
		t.Fatal(err)
	}
	if got, _ := g.IsPremium(ctx); got {
		t.Fatal("expected premium revoked")
	}
}

func TestFreeTierBoundary(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		count int
		want  bool
	}{
		{0, true},
		{29, true},
		{30, false},
		{31, false},
	}
	for _, tc := range cases {
		g := premium.New(kv.NewMemory(), fixedCount(tc.count))
		got, err := g.CanCreateDecision(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Fatalf("count %d: expected canCreate=%v, got %v", tc.count, tc.want, got)
		}
	}
}

func TestPremiumBypassesCap(t *testing.T) {
	ctx := context.Background()
	g := premium.New(kv.NewMemory(), fixedCount(500))
	if err := g.SetPremium(ctx, true); err != nil {
		t.Fatal(err)
	}
	got, err := g.CanCreateDecision(ctx)
	if err != nil || !got {
		t.Fatalf("premium journal must always create, got %v err %v", got, err)
	}
}

func TestConfiguredLimitOverride(t *testing.T) {
	ctx := context.Background()
	g := premium.New(kv.NewMemory(), fixedCount(30))
	g.Limit = 50
	got, err := g.CanCreateDecision(ctx)
	if err != nil || !got {
		t.Fatalf("count 30 under limit 50 must create, got %v err %v", got, err)
	}
	g.Limit = 10
	if got, _ := g.CanCreateDecision(ctx); got {
		t.Fatal("count 30 over limit 10 must be blocked")
	}
}
