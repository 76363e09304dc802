package common

import (
	"fmt"
	"strings"
	"time"

	"popcat/models"
)

// FormatCoins formats a coin amount with thousand separators
func FormatCoins(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%d", amount)

	// Add commas for thousands
	n := len(str)
	if n > 3 {
		var result strings.Builder
		for i, digit := range str {
			if i > 0 && (n-i)%3 == 0 {
				result.WriteRune(',')
			}
			result.WriteRune(digit)
		}
		str = result.String()
	}

	if negative {
		return "-" + str
	}
	return str
}

// FormatShares formats a fractional share count, trimming trailing zeros
func FormatShares(shares float64) string {
	str := strings.TrimRight(fmt.Sprintf("%.4f", shares), "0")
	return strings.TrimSuffix(str, ".")
}

// FormatRemaining formats a cooldown countdown, skipping leading zero units
func FormatRemaining(r models.Remaining) string {
	var parts []string
	if r.Days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", r.Days))
	}
	if r.Hours > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dh", r.Hours))
	}
	if r.Minutes > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dm", r.Minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", r.Seconds))
	return strings.Join(parts, " ")
}

// FormatDistance formats a great-circle distance hint in kilometers
func FormatDistance(km float64) string {
	return fmt.Sprintf("%s km", FormatCoins(int64(km+0.5)))
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
