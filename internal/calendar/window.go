package calendar

import "time"

type View int

const (
	ViewMonth View = iota
	ViewWeek
	ViewDay
)

func (v View) String() string {
	switch v {
	case ViewMonth:
		return "month"
	case ViewWeek:
		return "week"
	case ViewDay:
		return "day"
	}
	return "unknown"
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday on or before t, at midnight.
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// MonthGrid returns the 42-cell month grid for the anchor's month, starting
// on the Monday on or before the 1st.
func MonthGrid(anchor time.Time) []time.Time {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	start := StartOfWeek(first)

	days := make([]time.Time, 42)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Days returns the inclusive day range rendered for the given anchor and
// view mode.
func Days(anchor time.Time, view View) []time.Time {
	switch view {
	case ViewMonth:
		return MonthGrid(anchor)
	case ViewWeek:
		start := StartOfWeek(anchor)
		days := make([]time.Time, 7)
		for i := range days {
			days[i] = start.AddDate(0, 0, i)
		}
		return days
	default:
		return []time.Time{StartOfDay(anchor)}
	}
}

// ISOWeek computes the ISO-8601 week number via the Thursday rule: shift to
// the Thursday of the current week, then count weeks from that ISO year's
// first Thursday.
func ISOWeek(t time.Time) int {
	day := asUTCDate(t)
	weekday := (int(day.Weekday()) + 6) % 7 // Monday = 0
	thursday := day.AddDate(0, 0, 3-weekday)

	jan1 := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	jan1Weekday := (int(jan1.Weekday()) + 6) % 7
	firstThursday := jan1.AddDate(0, 0, (3-jan1Weekday+7)%7)

	return int(thursday.Sub(firstThursday)/(7*24*time.Hour)) + 1
}

// asUTCDate discards the clock time and location so day arithmetic is exact
// across DST transitions.
func asUTCDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Bucket assigns each event to the day whose [midnight, next midnight)
// range contains its timestamp. Days outside the given window are dropped,
// and each event lands in at most one bucket. Event timestamps are keyed in
// the window's location: rows scanned from the database carry UTC, and a
// time.Time map key only matches when the location matches too.
func Bucket(events []Event, days []time.Time) map[time.Time][]Event {
	buckets := make(map[time.Time][]Event)
	if len(days) == 0 {
		return buckets
	}
	loc := days[0].Location()

	index := make(map[time.Time]bool, len(days))
	for _, d := range days {
		index[StartOfDay(d)] = true
	}

	for _, ev := range events {
		day := StartOfDay(ev.At.In(loc))
		if !index[day] {
			continue
		}
		buckets[day] = append(buckets[day], ev)
	}
	return buckets
}
