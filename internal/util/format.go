package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDate formats a timestamp for display, or "Unknown" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Local().Format("Jan 02, 2006")
}

// FormatDateHuman formats a date with humanized relative display.
// "Today", "Yesterday", "3d ago", "Jan 15", "Jan 15 '24"
func FormatDateHuman(t time.Time) string {
	return formatDateHumanAt(t, time.Now())
}

func formatDateHumanAt(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.In(now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	days := int(today.Sub(day).Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days > 1 && days < 7:
		return fmt.Sprintf("%dd ago", days)
	case t.Year() == now.Year():
		return t.Format("Jan 02")
	default:
		return t.Format("Jan 02 '06")
	}
}

// FormatRatingStars formats a 1-5 rating as stars (e.g., "★★★★☆").
func FormatRatingStars(rating int) string {
	stars := min(max(rating, 0), 5)
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

// FormatFavoriteSymbol formats the favorite flag as ♥ or a blank.
func FormatFavoriteSymbol(favorite bool) string {
	if favorite {
		return "♥"
	}
	return " "
}

// FormatYesNo formats a boolean as "Yes" or "No".
func FormatYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ParseRating parses a whole-number rating in [lo, hi]. Empty input returns
// def.
func ParseRating(input string, lo, hi, def int) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return def, nil
	}
	r, err := strconv.Atoi(s)
	if err != nil || r < lo || r > hi {
		return 0, fmt.Errorf("rating must be a whole number between %d and %d", lo, hi)
	}
	return r, nil
}

// ParseYesNo accepts y/yes/1 and n/no/0. Empty input is false.
func ParseYesNo(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes", "1":
		return true, nil
	case "", "n", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("answer must be y/yes/1 or n/no/0")
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:max(maxLen, 0)])
	}
	return string(runes[:maxLen-3]) + "..."
}
