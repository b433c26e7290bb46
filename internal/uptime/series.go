package uptime

import (
	"slices"
	"sort"
	"time"
)

// Observation is a single status poll of one store.
type Observation struct {
	At     time.Time
	Active bool
}

// Series is the ordered poll history of one store. It is sorted ascending
// and holds at most one observation per timestamp.
type Series struct {
	samples []Observation
}

// NewSeries copies, sorts and deduplicates observations. When two
// observations share a timestamp the later one in input order wins.
func NewSeries(obs []Observation) *Series {
	sorted := slices.Clone(obs)
	slices.SortStableFunc(sorted, func(a, b Observation) int {
		return a.At.Compare(b.At)
	})

	out := sorted[:0]
	for _, o := range sorted {
		if n := len(out); n > 0 && out[n-1].At.Equal(o.At) {
			out[n-1] = o
			continue
		}
		out = append(out, o)
	}
	return &Series{samples: out}
}

// Len returns the number of distinct observations.
func (s *Series) Len() int {
	return len(s.samples)
}

// Latest returns the most recent observation.
func (s *Series) Latest() (Observation, bool) {
	if len(s.samples) == 0 {
		return Observation{}, false
	}
	return s.samples[len(s.samples)-1], true
}

// Between returns the observations in [start, end). The slice aliases the
// series and must not be modified.
func (s *Series) Between(start, end time.Time) []Observation {
	lo := s.search(start)
	hi := s.search(end)
	if lo >= hi {
		return nil
	}
	return s.samples[lo:hi:hi]
}

// search returns the index of the first observation at or after t.
func (s *Series) search(t time.Time) int {
	return sort.Search(len(s.samples), func(i int) bool {
		return !s.samples[i].At.Before(t)
	})
}
