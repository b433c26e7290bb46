package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?$`)

// timestampLayouts are tried in order. Fractional seconds directly after the
// seconds field are accepted by time.Parse even when the layout omits them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Timestamp parses a UTC poll timestamp such as "2023-01-25 18:13:22.47922 UTC".
// Values without a zone are taken as UTC. The result is always in UTC.
func Timestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

// Clock parses a local time of day ("09:00", "21:30:00", "23:59:59.999999")
// into the offset from midnight.
func Clock(raw string) (time.Duration, error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, fmt.Errorf("unrecognised time of day %q", raw)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	var sec, nsec int
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	if m[4] != "" {
		// right-pad to nanoseconds: ".5" -> 500000000
		frac := m[4] + strings.Repeat("0", 9-len(m[4]))
		nsec, _ = strconv.Atoi(frac)
	}
	if h > 23 || mi > 59 || sec > 59 {
		return 0, fmt.Errorf("time of day %q out of range", raw)
	}
	return time.Duration(h)*time.Hour +
		time.Duration(mi)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(nsec), nil
}

// Status reports whether a poll status string means the store was active.
func Status(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return true, nil
	case "inactive":
		return false, nil
	}
	return false, fmt.Errorf("unknown status %q", raw)
}

// DayOfWeek parses a business-hours weekday, 0 = Monday through 6 = Sunday.
func DayOfWeek(raw string) (int, error) {
	d, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid day of week %q: %w", raw, err)
	}
	if d < 0 || d > 6 {
		return 0, fmt.Errorf("day of week %d out of range 0-6", d)
	}
	return d, nil
}
