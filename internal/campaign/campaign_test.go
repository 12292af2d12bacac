package campaign

import (
	"strings"
	"testing"
	"time"

	"github.com/poryadindom/leadbot/internal/feed"
)

func mustTime(t *testing.T, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestNextOddDayAtBeforeHour(t *testing.T) {
	// 3rd is odd; at 08:00 the 12:00 slot of the same day is still ahead
	now := mustTime(t, 2025, time.March, 3, 8, 0)
	next := nextOddDayAt(now, 12)
	want := mustTime(t, 2025, time.March, 3, 12, 0)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextOddDayAtAfterHour(t *testing.T) {
	// 12:00 of the 3rd has passed; the next odd day is the 5th
	now := mustTime(t, 2025, time.March, 3, 13, 0)
	next := nextOddDayAt(now, 12)
	want := mustTime(t, 2025, time.March, 5, 12, 0)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextOddDayAtSkipsEvenDay(t *testing.T) {
	now := mustTime(t, 2025, time.March, 4, 9, 0)
	next := nextOddDayAt(now, 12)
	want := mustTime(t, 2025, time.March, 5, 12, 0)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextOddDayAtMonthRollover(t *testing.T) {
	// The 31st at 13:00: day 1 of the next month is the next odd slot.
	now := mustTime(t, 2025, time.March, 31, 13, 0)
	next := nextOddDayAt(now, 12)
	want := mustTime(t, 2025, time.April, 1, 12, 0)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextWeekdayAt(t *testing.T) {
	// 2025-05-07 is a Wednesday; next Monday is the 12th
	now := mustTime(t, 2025, time.May, 7, 10, 0)
	next := nextWeekdayAt(now, time.Monday, 9)
	want := mustTime(t, 2025, time.May, 12, 9, 0)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextWeekdayAtSameDayBeforeHour(t *testing.T) {
	// 2025-05-12 is a Monday; 09:00 is still ahead at 08:00
	now := mustTime(t, 2025, time.May, 12, 8, 0)
	next := nextWeekdayAt(now, time.Monday, 9)
	want := mustTime(t, 2025, time.May, 12, 9, 0)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextWeekdayAtSameDayAfterHour(t *testing.T) {
	now := mustTime(t, 2025, time.May, 12, 9, 30)
	next := nextWeekdayAt(now, time.Monday, 9)
	want := mustTime(t, 2025, time.May, 19, 9, 0)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestFormatDigest(t *testing.T) {
	items := []feed.Item{
		{Title: "Ставки <снова> вниз", Link: "https://example.com/1"},
		{Title: "Новый ЖК", Link: "https://example.com/2"},
	}
	got := FormatDigest(items)
	if !strings.HasPrefix(got, digestHeader) {
		t.Fatalf("missing header: %s", got)
	}
	if !strings.Contains(got, `<a href="https://example.com/1">Ставки &lt;снова&gt; вниз</a>`) {
		t.Fatalf("title not escaped: %s", got)
	}
	if strings.Count(got, "<a href=") != 2 {
		t.Fatalf("expected 2 links: %s", got)
	}
}
