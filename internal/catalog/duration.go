package catalog

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"
)

var (
	hoursMinutesPattern = regexp.MustCompile(`^(\d+)\s*h\s+(\d+)\s*m$`)
	hoursPattern        = regexp.MustCompile(`^(\d+)\s*h$`)
	minutesPattern      = regexp.MustCompile(`^(\d+)\s*m$`)
)

// ParseDurationMinutes converts "1h 30m", "2h" or "45m" into minutes.
// Any other input, including nil and non-string values, yields 0.
func ParseDurationMinutes(v any) int {
	var text string
	switch d := v.(type) {
	case string:
		text = d
	case *string:
		if d == nil {
			return 0
		}
		text = *d
	case sql.NullString:
		if !d.Valid {
			return 0
		}
		text = d.String
	default:
		return 0
	}

	text = strings.TrimSpace(text)
	if m := hoursMinutesPattern.FindStringSubmatch(text); m != nil {
		return atoi(m[1])*60 + atoi(m[2])
	}
	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		return atoi(m[1]) * 60
	}
	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		return atoi(m[1])
	}
	return 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
