package normalizer

import (
	"strconv"
	"strings"
	"time"
)

// parseTimestamp accepts epoch seconds (<=10 digits, multiplied by 1000),
// epoch milliseconds, ISO-8601 strings, or an already-parsed time.Time.
// Anything else (or empty) yields (nil, false).
func parseTimestamp(v interface{}) (*time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case time.Time:
		t := val.UTC()
		return &t, true
	case float64:
		return parseEpoch(int64(val))
	case string:
		return parseTimestampString(val)
	default:
		return nil, false
	}
}

func parseTimestampString(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return parseEpoch(n)
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

func parseEpoch(n int64) (*time.Time, bool) {
	digits := len(strconv.FormatInt(absInt64(n), 10))
	if digits <= 10 {
		n *= 1000
	}
	t := time.UnixMilli(n).UTC()
	return &t, true
}

func absInt64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// normalizePhone strips whitespace only; full E.164 validation is
// deliberately not performed here (projection-time lookup handles
// identity resolution against the user table).
func normalizePhone(raw string) string {
	return strings.Join(strings.Fields(raw), "")
}
