package daterange

import (
	"errors"
	"testing"
	"time"
)

func mustRange(t *testing.T, in, out string) DateRange {
	t.Helper()
	r, err := Parse(in, out)
	if err != nil {
		t.Fatalf("Parse(%s, %s): %v", in, out, err)
	}
	return r
}

func TestParseRejectsInvertedRange(t *testing.T) {
	if _, err := Parse("2025-06-05", "2025-06-01"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := Parse("2025-06-01", "2025-06-01"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for zero-night stay, got %v", err)
	}
}

func TestParseRejectsBadFormat(t *testing.T) {
	if _, err := Parse("06/01/2025", "2025-06-05"); err == nil {
		t.Fatal("expected format error for non ISO date")
	}
}

func TestNights(t *testing.T) {
	r := mustRange(t, "2025-06-01", "2025-06-05")
	if got := r.Nights(); got != 4 {
		t.Fatalf("expected 4 nights, got %d", got)
	}
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	base := mustRange(t, "2025-06-01", "2025-06-05")

	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"identical", mustRange(t, "2025-06-01", "2025-06-05"), true},
		{"contained", mustRange(t, "2025-06-02", "2025-06-04"), true},
		{"straddles checkout", mustRange(t, "2025-06-03", "2025-06-08"), true},
		{"straddles checkin", mustRange(t, "2025-05-30", "2025-06-02"), true},
		{"back to back after", mustRange(t, "2025-06-05", "2025-06-10"), false},
		{"back to back before", mustRange(t, "2025-05-28", "2025-06-01"), false},
		{"disjoint", mustRange(t, "2025-07-01", "2025-07-05"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Fatalf("Overlaps(%s) = %v, want %v", tc.other, got, tc.want)
			}
		})
	}
}

func TestNewTruncatesToUTCMidnight(t *testing.T) {
	in := time.Date(2025, 6, 1, 15, 30, 0, 0, time.FixedZone("X", 3600))
	out := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)
	r, err := New(in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.CheckIn.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("check-in not truncated: %v", r.CheckIn)
	}
	if !r.CheckOut.Equal(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("check-out not truncated: %v", r.CheckOut)
	}
}

func TestContainsDate(t *testing.T) {
	r := mustRange(t, "2025-06-01", "2025-06-05")
	if !r.ContainsDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("check-in day must be contained")
	}
	if r.ContainsDate(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("check-out day must not be contained")
	}
}
