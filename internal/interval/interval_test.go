package interval

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("TST", 5*60*60)
	at := time.Date(2025, time.June, 1, 13, 45, 12, 987, loc)

	got := StartOfDay(at)

	want := time.Date(2025, time.June, 1, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got.Location() != loc {
		t.Fatalf("expected location %v to be preserved, got %v", loc, got.Location())
	}
}

func TestDayBounds(t *testing.T) {
	day := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.Local)

	start, end := DayBounds(day)

	if !start.Equal(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2025, time.June, 2, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected end %v", end)
	}
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"disjoint", at(9), at(10), at(10), at(11), false},
		{"touching boundaries do not overlap", at(9), at(11), at(11), at(12), false},
		{"partial overlap", at(9), at(11), at(10), at(12), true},
		{"containment", at(9), at(18), at(10), at(11), true},
		{"identical", at(9), at(10), at(9), at(10), true},
		{"zero length never overlaps", at(10), at(10), at(9), at(11), false},
		{"inverted interval never overlaps", at(11), at(9), at(9), at(18), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestHourSlotBounds(t *testing.T) {
	day := time.Date(2025, time.June, 1, 17, 3, 0, 0, time.Local)

	start, end := HourSlotBounds(day, 9)

	if !start.Equal(time.Date(2025, time.June, 1, 9, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected slot start %v", start)
	}
	if !end.Equal(time.Date(2025, time.June, 1, 10, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected slot end %v", end)
	}
}

func TestAddDays(t *testing.T) {
	day := time.Date(2025, time.January, 31, 15, 0, 0, 0, time.Local)

	got := AddDays(day, 1)

	if !got.Equal(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("expected normalized next day, got %v", got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)
	b := time.Date(2025, time.June, 1, 23, 59, 59, 0, time.Local)
	c := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.Local)

	if !SameDay(a, b) {
		t.Fatalf("expected %v and %v to share a day", a, b)
	}
	if SameDay(a, c) {
		t.Fatalf("expected %v and %v to differ", a, c)
	}
}
