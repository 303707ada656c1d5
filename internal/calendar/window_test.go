package calendar

import (
	"testing"
	"time"
)

func TestISOWeek(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"2024-01-01 Monday opens week 1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{"2023-12-31 Sunday closes week 52", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), 52},
		{"2021-01-01 Friday belongs to week 53 of 2020", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 53},
		{"2026-08-31 Monday", time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), 36},
		{"mid year", time.Date(2024, 7, 3, 12, 0, 0, 0, time.UTC), 27},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ISOWeek(tt.date); got != tt.want {
				t.Errorf("got week %d, want %d", got, tt.want)
			}
		})
	}
}

func TestISOWeekAgreesWithStdlib(t *testing.T) {
	day := time.Date(2019, 12, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i++ {
		_, want := day.ISOWeek()
		if got := ISOWeek(day); got != want {
			t.Fatalf("%s: got week %d, want %d", day.Format("2006-01-02"), got, want)
		}
		day = day.AddDate(0, 0, 1)
	}
}

func TestStartOfWeekIsMonday(t *testing.T) {
	tests := []struct {
		date time.Time
		want time.Time
	}{
		{time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},  // Wednesday
		{time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},   // Monday stays
		{time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)}, // Sunday
	}

	for _, tt := range tests {
		if got := StartOfWeek(tt.date); !got.Equal(tt.want) {
			t.Errorf("StartOfWeek(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestMonthGridShape(t *testing.T) {
	anchors := []time.Time{
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), // leap February
		time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),  // month starting on Sunday
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),  // month starting on Monday
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	for _, anchor := range anchors {
		grid := MonthGrid(anchor)

		if len(grid) != 42 {
			t.Fatalf("%s: grid has %d cells, want 42", anchor.Format("2006-01"), len(grid))
		}

		first := grid[0]
		if first.Weekday() != time.Monday {
			t.Errorf("%s: grid starts on %s, want Monday", anchor.Format("2006-01"), first.Weekday())
		}

		monthFirst := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		if first.After(monthFirst) {
			t.Errorf("%s: grid starts %s, after the 1st", anchor.Format("2006-01"), first)
		}

		for i := 1; i < len(grid); i++ {
			if !grid[i].Equal(grid[i-1].AddDate(0, 0, 1)) {
				t.Fatalf("%s: grid not contiguous at cell %d", anchor.Format("2006-01"), i)
			}
		}
	}
}

func TestDaysPerView(t *testing.T) {
	anchor := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC) // Wednesday

	if got := len(Days(anchor, ViewMonth)); got != 42 {
		t.Errorf("month view: %d days, want 42", got)
	}

	week := Days(anchor, ViewWeek)
	if len(week) != 7 {
		t.Fatalf("week view: %d days, want 7", len(week))
	}
	if week[0].Weekday() != time.Monday || week[6].Weekday() != time.Sunday {
		t.Errorf("week runs %s..%s, want Monday..Sunday", week[0].Weekday(), week[6].Weekday())
	}

	day := Days(anchor, ViewDay)
	if len(day) != 1 || !day[0].Equal(StartOfDay(anchor)) {
		t.Errorf("day view: got %v", day)
	}
}

func TestBucketPartitionsEvents(t *testing.T) {
	anchor := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	days := Days(anchor, ViewWeek)

	events := []Event{
		{Kind: KindInterview, At: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), RawID: 1},    // midnight, inclusive
		{Kind: KindDeadline, At: time.Date(2024, 3, 4, 23, 59, 59, 0, time.UTC), RawID: 2},  // end of day
		{Kind: KindFollowup, At: time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC), RawID: 3},    // mid-week
		{Kind: KindOverdue, At: time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC), RawID: 4},    // outside window
		{Kind: KindInterview, At: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), RawID: 5},   // next Monday, outside
	}

	buckets := Bucket(events, days)

	total := 0
	seen := map[int64]int{}
	for day, evs := range buckets {
		for _, ev := range evs {
			total++
			seen[ev.RawID]++
			if ev.At.Before(day) || !ev.At.Before(day.AddDate(0, 0, 1)) {
				t.Errorf("event %d at %s bucketed into %s", ev.RawID, ev.At, day)
			}
		}
	}

	if total != 3 {
		t.Errorf("bucketed %d events, want 3", total)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("event %d appears in %d buckets", id, n)
		}
	}
	if seen[4] != 0 || seen[5] != 0 {
		t.Errorf("out-of-window events were bucketed: %v", seen)
	}
}

func TestBucketKeysInWindowLocation(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*3600)
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, zone)

	events := []Event{
		// 07:00 UTC is 09:00 on the same day in the window's zone
		{Kind: KindDeadline, At: time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC), RawID: 1},
		// 23:30 UTC is already the next day in the window's zone
		{Kind: KindDeadline, At: time.Date(2024, 3, 4, 23, 30, 0, 0, time.UTC), RawID: 2},
	}

	buckets := Bucket(events, []time.Time{day})

	got := buckets[day]
	if len(got) != 1 || got[0].RawID != 1 {
		t.Fatalf("bucketed %v, want only event 1", got)
	}
}

func TestBucketEmptyWindow(t *testing.T) {
	events := []Event{{Kind: KindDeadline, At: time.Now(), RawID: 1}}
	if buckets := Bucket(events, nil); len(buckets) != 0 {
		t.Errorf("empty window produced buckets: %v", buckets)
	}
}
