package plan

import (
	"errors"
	"testing"
)

func TestLimitFor(t *testing.T) {
	if n, err := LimitFor(Free); err != nil || n != FreeLimit {
		t.Fatalf("free limit: got %d err=%v", n, err)
	}
	if n, err := LimitFor(Pro); err != nil || n != Unlimited {
		t.Fatalf("pro limit: got %d err=%v", n, err)
	}
	if _, err := LimitFor(Plan("GOLD")); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestCanCreateMatchesLimit(t *testing.T) {
	for count := 0; count <= FreeLimit+2; count++ {
		ok, err := CanCreate(count, Free)
		if err != nil {
			t.Fatalf("count=%d: %v", count, err)
		}
		if ok != (count < FreeLimit) {
			t.Fatalf("count=%d: got %v", count, ok)
		}
		// PRO is never capped, whatever the count
		if ok, err := CanCreate(count, Pro); err != nil || !ok {
			t.Fatalf("pro count=%d: got %v err=%v", count, ok, err)
		}
	}
}

func TestRemaining(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{0, FreeLimit},
		{3, FreeLimit - 3},
		{FreeLimit, 0},
		{FreeLimit + 4, 0}, // never negative
	}
	for _, c := range cases {
		got, err := Remaining(c.count, Free)
		if err != nil || got != c.want {
			t.Fatalf("Remaining(%d, FREE)=%d err=%v want %d", c.count, got, err, c.want)
		}
	}
	if got, err := Remaining(1000, Pro); err != nil || got != Unlimited {
		t.Fatalf("Remaining(PRO)=%d err=%v", got, err)
	}
}

func TestFeaturesFor(t *testing.T) {
	free, err := FeaturesFor(Free)
	if err != nil {
		t.Fatalf("free: %v", err)
	}
	if free != (Features{}) {
		t.Fatalf("free features should all be off: %#v", free)
	}
	pro, err := FeaturesFor(Pro)
	if err != nil {
		t.Fatalf("pro: %v", err)
	}
	if !pro.CustomBranding || !pro.Qris || !pro.CleanExport || !pro.PrioritySupport {
		t.Fatalf("pro features should all be on: %#v", pro)
	}
}

func TestParse(t *testing.T) {
	if p, err := Parse("FREE"); err != nil || p != Free {
		t.Fatalf("parse FREE: %v %v", p, err)
	}
	if p, err := Parse("PRO"); err != nil || p != Pro {
		t.Fatalf("parse PRO: %v %v", p, err)
	}
	if _, err := Parse("free"); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("lowercase must not parse: %v", err)
	}
}
