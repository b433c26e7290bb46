package uptime

import (
	"slices"
	"time"
)

// Span is a half-open UTC interval.
type Span struct {
	Start, End time.Time
}

// Accumulate measures active and inactive time in [start, end) restricted to
// the store's business hours in loc. Each business-hour span is interpolated
// on its own samples only, so a span without polls counts as inactive.
func Accumulate(series *Series, start, end time.Time, hours WeeklyHours, loc *time.Location) Tally {
	var total Tally
	for _, sp := range BusinessSpans(start, end, hours, loc) {
		total = total.Add(Interpolate(series.Between(sp.Start, sp.End), sp.Start, sp.End))
	}
	return total
}

// BusinessSpans returns the parts of [start, end) that fall inside business
// hours, as sorted, non-overlapping UTC intervals. Days are walked on the
// civil calendar of loc, starting one day early so that a window opened the
// previous evening and closing after midnight is included.
func BusinessSpans(start, end time.Time, hours WeeklyHours, loc *time.Location) []Span {
	if !end.After(start) {
		return nil
	}
	first := civilDate(start.In(loc)).AddDate(0, 0, -1)
	last := civilDate(end.In(loc))

	var spans []Span
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		w, ok := hours.For(dayIndex(d.Weekday()))
		if !ok {
			continue
		}
		y, m, dd := d.Date()
		s := latest(localInstant(y, m, dd, w.Open, loc), start)
		e := earliest(localInstant(y, m, dd, w.Close, loc), end)
		if s.Before(e) {
			spans = append(spans, Span{Start: s.UTC(), End: e.UTC()})
		}
	}
	return mergeSpans(spans)
}

// civilDate strips the clock and zone from t, keeping its local calendar
// date. The result is in UTC so day arithmetic never meets a DST shift.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// localInstant converts a local calendar date plus an offset from its
// midnight to an instant. Offsets of a day or more roll into later dates.
func localInstant(y int, m time.Month, d int, offset time.Duration, loc *time.Location) time.Time {
	days := int(offset / day)
	offset -= time.Duration(days) * day
	h := offset / time.Hour
	offset -= h * time.Hour
	mi := offset / time.Minute
	offset -= mi * time.Minute
	s := offset / time.Second
	offset -= s * time.Second
	return time.Date(y, m, d+days, int(h), int(mi), int(s), int(offset), loc)
}

func mergeSpans(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}
	slices.SortFunc(spans, func(a, b Span) int {
		return a.Start.Compare(b.Start)
	})
	out := spans[:1]
	for _, sp := range spans[1:] {
		cur := &out[len(out)-1]
		if !sp.Start.After(cur.End) {
			cur.End = latest(cur.End, sp.End)
			continue
		}
		out = append(out, sp)
	}
	return out
}
