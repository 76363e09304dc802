package common

import (
	"testing"
	"time"

	"popcat/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatCoins(t *testing.T) {
	tests := []struct {
		amount   int64
		expected string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{25000, "25,000"},
		{1234567, "1,234,567"},
		{-1500, "-1,500"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatCoins(tt.amount), "amount %d", tt.amount)
	}
}

func TestFormatShares(t *testing.T) {
	assert.Equal(t, "3", FormatShares(3.0))
	assert.Equal(t, "0.5", FormatShares(0.5))
	assert.Equal(t, "1.2345", FormatShares(1.23454))
	assert.Equal(t, "2.25", FormatShares(2.2500))
}

func TestFormatRemaining(t *testing.T) {
	t.Run("seconds only", func(t *testing.T) {
		assert.Equal(t, "42s", FormatRemaining(models.Remaining{Seconds: 42}))
	})

	t.Run("skips leading zero units", func(t *testing.T) {
		assert.Equal(t, "5m 3s", FormatRemaining(models.Remaining{Minutes: 5, Seconds: 3}))
	})

	t.Run("keeps inner zeros once a larger unit is set", func(t *testing.T) {
		assert.Equal(t, "2d 0h 0m 10s", FormatRemaining(models.Remaining{Days: 2, Seconds: 10}))
	})

	t.Run("full countdown", func(t *testing.T) {
		assert.Equal(t, "1d 2h 3m 4s", FormatRemaining(models.Remaining{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}))
	})
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "344 km", FormatDistance(343.6))
	assert.Equal(t, "12,000 km", FormatDistance(11999.7))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:R>", FormatDiscordTimestamp(ts, "R"))
}
