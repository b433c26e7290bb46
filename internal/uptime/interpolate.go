package uptime

import "time"

// Tally holds active and inactive time inside a window.
type Tally struct {
	Active   time.Duration
	Inactive time.Duration
}

// Add returns the element-wise sum of two tallies.
func (t Tally) Add(o Tally) Tally {
	return Tally{Active: t.Active + o.Active, Inactive: t.Inactive + o.Inactive}
}

// Total is the length of the measured window.
func (t Tally) Total() time.Duration {
	return t.Active + t.Inactive
}

func (t Tally) ActiveMinutes() float64   { return t.Active.Minutes() }
func (t Tally) InactiveMinutes() float64 { return t.Inactive.Minutes() }

// Interpolate estimates active and inactive time in [start, end) from
// ascending samples assumed to lie inside the window. Each sample's status
// holds until the next sample; the last one holds until end. With no
// samples the whole window counts as inactive. Inactive time is derived as
// the window length minus active time, so the two always sum to end-start.
func Interpolate(samples []Observation, start, end time.Time) Tally {
	if !end.After(start) {
		return Tally{}
	}
	total := end.Sub(start)
	if len(samples) == 0 {
		return Tally{Inactive: total}
	}

	var active time.Duration
	for i := 0; i < len(samples)-1; i++ {
		if !samples[i].Active {
			continue
		}
		from := latest(samples[i].At, start)
		to := earliest(samples[i+1].At, end)
		if from.Before(to) {
			active += to.Sub(from)
		}
	}

	last := samples[len(samples)-1]
	if last.Active {
		from := latest(last.At, start)
		if from.Before(end) {
			active += end.Sub(from)
		}
	}

	return Tally{Active: active, Inactive: total - active}
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
