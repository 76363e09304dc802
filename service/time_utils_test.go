package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfUTCDay(t *testing.T) {
	in := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), StartOfUTCDay(in))

	// A local time east of UTC can fall on the previous UTC day.
	loc := time.FixedZone("UTC+9", 9*3600)
	in = time.Date(2025, 3, 11, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), StartOfUTCDay(in))
}

func TestStartOfUTCWeek(t *testing.T) {
	// 2025-03-10 is a Monday.
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	for day := 0; day < 7; day++ {
		in := monday.AddDate(0, 0, day).Add(13 * time.Hour)
		assert.Equal(t, monday, StartOfUTCWeek(in), "day offset %d", day)
	}

	assert.Equal(t, monday.AddDate(0, 0, 7), StartOfUTCWeek(monday.AddDate(0, 0, 7)))
}

func TestNextWindows(t *testing.T) {
	in := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC) // Wednesday

	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), NextUTCDay(in))
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), NextUTCWeek(in))
}
