package service

import (
	"time"
)

// StartOfUTCDay returns midnight UTC of the day containing t.
func StartOfUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextUTCDay returns midnight UTC of the day after t, when the daily reward
// window reopens.
func NextUTCDay(t time.Time) time.Time {
	return StartOfUTCDay(t).AddDate(0, 0, 1)
}

// StartOfUTCWeek returns midnight UTC of the Monday of the week containing
// t.
func StartOfUTCWeek(t time.Time) time.Time {
	day := StartOfUTCDay(t)
	// time.Weekday counts Sunday as 0
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// NextUTCWeek returns midnight UTC of the following Monday, when rent can be
// collected again.
func NextUTCWeek(t time.Time) time.Time {
	return StartOfUTCWeek(t).AddDate(0, 0, 7)
}
