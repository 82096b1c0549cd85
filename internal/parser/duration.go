package parser

import (
	"math"
	"strconv"
	"strings"
)

// Workday conventions used to normalize coarse duration units.
const (
	minutesPerHour  = 60
	hoursPerWorkday = 8
	workdaysPerWeek = 5
)

// ParseDurationMinutes converts a free-text duration expression into
// minutes. The first decimal number found ("." or "," separator both
// accepted) is multiplied by the first matching unit, checked in
// priority order: hours, days (8h workday), weeks (5 workdays), or taken
// as minutes when no unit keyword occurs. An "h" directly attached to
// the number ("3h", "1h30") also counts as hours; a free-standing "h"
// does not, so words that merely contain the letter are never read as a
// unit. Compound expressions such as "1h30" are not supported: the first
// unit wins. Returns 0 when the text carries no number.
func ParseDurationMinutes(text string, labels LabelSet) int {
	value, end, ok := firstNumber(text)
	if !ok {
		return 0
	}

	lower := strings.ToLower(text)
	factor := 1.0
	switch {
	case containsAny(lower, labels.HourKeywords) || hourSuffix(text, end):
		factor = minutesPerHour
	case containsAny(lower, labels.DayKeywords):
		factor = minutesPerHour * hoursPerWorkday
	case containsAny(lower, labels.WeekKeywords):
		factor = minutesPerHour * hoursPerWorkday * workdaysPerWeek
	}

	return int(math.Round(value * factor))
}

// firstNumber scans forward for the first decimal number, accepting both
// "." and "," as the decimal separator. It returns the parsed value and
// the byte offset just past the number.
func firstNumber(s string) (float64, int, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			continue
		}
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		// Optional single decimal separator followed by digits.
		if j+1 < len(s) && (s[j] == '.' || s[j] == ',') && s[j+1] >= '0' && s[j+1] <= '9' {
			j++
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
		}
		num := strings.ReplaceAll(s[i:j], ",", ".")
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, 0, false
		}
		return v, j, true
	}
	return 0, 0, false
}

// hourSuffix reports whether the number ending at end is written with an
// attached hour abbreviation: an "h" immediately after the digits that is
// not the start of another word ("3h", "1h30", but not "3 ha").
func hourSuffix(s string, end int) bool {
	if end >= len(s) || (s[end] != 'h' && s[end] != 'H') {
		return false
	}
	if end+1 >= len(s) {
		return true
	}
	c := s[end+1] | 0x20
	return c < 'a' || c > 'z'
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
