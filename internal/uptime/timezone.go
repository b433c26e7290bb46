package uptime

import (
	"strings"
	"time"
)

// DefaultTimezone is assumed for stores without a timezone record.
const DefaultTimezone = "America/Chicago"

// TimezoneRow is one raw timezone record.
type TimezoneRow struct {
	StoreID      string
	TimezoneName string
}

// TimezoneResolver maps stores to their IANA zone. It is not safe for
// concurrent use; build one per report.
type TimezoneResolver struct {
	names    map[string]string
	fallback string
	loaded   map[string]*time.Location
}

// NewTimezoneResolver indexes timezone rows. Later rows for a store win.
// An empty fallback means DefaultTimezone.
func NewTimezoneResolver(rows []TimezoneRow, fallback string) *TimezoneResolver {
	if fallback == "" {
		fallback = DefaultTimezone
	}
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		if name := strings.TrimSpace(r.TimezoneName); name != "" {
			names[r.StoreID] = name
		}
	}
	return &TimezoneResolver{
		names:    names,
		fallback: fallback,
		loaded:   make(map[string]*time.Location),
	}
}

// Resolve returns the store's zone, or the fallback zone when none is
// recorded.
func (r *TimezoneResolver) Resolve(storeID string) (*time.Location, error) {
	name, ok := r.names[storeID]
	if !ok {
		name = r.fallback
	}
	if loc, ok := r.loaded[name]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, malformed(ErrMalformedTimezone, storeID, "timezone_str", name, err)
	}
	r.loaded[name] = loc
	return loc, nil
}
