package schedule

import (
	"testing"
	"time"
)

func TestUpcomingKeepsTodayAndFutureInInputOrder(t *testing.T) {
	today := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.Local)
	got := Upcoming(today, []string{"09.03.2024 Old", "10.03.2024 Today", "15.3.2024 Future", "garbage"})
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d: %#v", len(got), got)
	}
	if got[0].Label != "Today" || got[0].Prefix() != "10.03." {
		t.Fatalf("unexpected first event %#v (%s)", got[0], got[0].Prefix())
	}
	if got[1].Label != "Future" || got[1].Prefix() != "15.03." {
		t.Fatalf("unexpected second event %#v (%s)", got[1], got[1].Prefix())
	}
}

func TestUpcomingDoesNotSort(t *testing.T) {
	today := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	got := Upcoming(today, []string{"1.6.2024 Later", "1.2.2024 Sooner"})
	if len(got) != 2 || got[0].Label != "Later" || got[1].Label != "Sooner" {
		t.Fatalf("expected input order, got %#v", got)
	}
}

func TestParseRejectsImpossibleDates(t *testing.T) {
	for _, line := range []string{"31.02.2024 Nope", "1.13.2024 Nope", "1.1.24 short year", "x 1.1.2024"} {
		if _, ok := Parse(line); ok {
			t.Fatalf("expected %q to be rejected", line)
		}
	}
	ev, ok := Parse("24.12.2026Weihnachtsfeier")
	if !ok || ev.Label != "Weihnachtsfeier" {
		t.Fatalf("label without space should parse, got %#v %v", ev, ok)
	}
}

func TestUpcomingFarFuture(t *testing.T) {
	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	got := Upcoming(today, []string{"1.1.2999 Someday"})
	if len(got) != 1 {
		t.Fatalf("no upper bound expected, got %#v", got)
	}
}
