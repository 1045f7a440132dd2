package model

import (
	"testing"
	"time"
)

func TestParsePointType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want PointType
		ok   bool
	}{
		{"taxi", PointTypeTaxi, true},
		{" Check-In ", PointTypeCheckIn, true},
		{"sightseeing", PointTypeSightseeing, true},
		{"zeppelin", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParsePointType(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParsePointType(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseFilterAndSortDefaults(t *testing.T) {
	t.Parallel()

	if f, ok := ParseFilterType(""); !ok || f != FilterEverything {
		t.Fatalf("empty filter = %q,%v", f, ok)
	}
	if f, ok := ParseFilterType("PAST"); !ok || f != FilterPast {
		t.Fatalf("PAST = %q,%v", f, ok)
	}
	if _, ok := ParseFilterType("later"); ok {
		t.Fatalf("unknown filter accepted")
	}
	if s, ok := ParseSortType(""); !ok || s != SortDay {
		t.Fatalf("empty sort = %q,%v", s, ok)
	}
	if _, ok := ParseSortType("offers"); ok {
		t.Fatalf("unknown sort accepted")
	}
}

func TestTotalPrice(t *testing.T) {
	t.Parallel()

	groups := []OfferGroup{{Type: PointTypeTaxi, Offers: []Offer{{ID: 1, Price: 10}, {ID: 2, Price: 25}}}}
	p := Point{Type: PointTypeTaxi, BasePrice: 100, Offers: []int{2, 99}}
	if got := TotalPrice(p, groups); got != 125 {
		t.Fatalf("TotalPrice = %d, want 125", got)
	}
	p.Type = PointTypeBus
	if got := TotalPrice(p, groups); got != 100 {
		t.Fatalf("TotalPrice without group = %d, want 100", got)
	}
}

func TestPointClone(t *testing.T) {
	t.Parallel()

	p := Point{ID: "pt-1", Offers: []int{1, 2}, DateFrom: time.Unix(0, 0)}
	c := p.Clone()
	c.Offers[0] = 9
	if p.Offers[0] != 1 {
		t.Fatalf("clone shares offers")
	}

	empty := Point{Offers: []int{}}.Clone()
	if empty.Offers == nil {
		t.Fatalf("empty offers became nil")
	}
}

func TestScopeAndActionStrings(t *testing.T) {
	t.Parallel()

	if Patch.String() != "patch" || Minor.String() != "minor" || Major.String() != "major" {
		t.Fatalf("scope strings: %s %s %s", Patch, Minor, Major)
	}
	if AddPoint.String() != "add-point" || UserAction(42).String() != "unknown" {
		t.Fatalf("action strings: %s %s", AddPoint, UserAction(42))
	}
}
