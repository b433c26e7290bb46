package uptime

import (
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"time"

	"store-monitor-backend/internal/parse"
)

// Report windows, all ending at the reference instant.
const (
	LastHour = time.Hour
	LastDay  = 24 * time.Hour
	LastWeek = 7 * 24 * time.Hour
)

// StatusRow is one raw status poll.
type StatusRow struct {
	StoreID      string
	TimestampUTC time.Time
	Status       string
}

// Input is the snapshot of the three source tables for one report.
type Input struct {
	Statuses  []StatusRow
	Hours     []BusinessHourRow
	Timezones []TimezoneRow
}

// Options tune report generation.
type Options struct {
	// DefaultTimezone replaces DefaultTimezone when non-empty.
	DefaultTimezone string
	// FailFast aborts on the first store that cannot be computed instead of
	// logging it and continuing with the others.
	FailFast bool
}

// Row is the uptime summary of one store. Hour fields are minutes; day and
// week fields are hours.
type Row struct {
	StoreID          string
	UptimeLastHour   float64
	UptimeLastDay    float64
	UptimeLastWeek   float64
	DowntimeLastHour float64
	DowntimeLastDay  float64
	DowntimeLastWeek float64
}

// Report is the outcome of one computation.
type Report struct {
	ReferenceTime time.Time
	Rows          []Row
	// Skipped holds the per-store errors of stores left out of Rows.
	Skipped []error
}

// Generate computes the uptime report. The reference instant is the latest
// status timestamp in the input. Every store seen in the status rows gets a
// row, ordered by store id, unless its data is malformed.
func Generate(in Input, opts Options) (*Report, error) {
	ref, ok := referenceTime(in.Statuses)
	if !ok {
		return nil, ErrMissingReferenceTime
	}

	zones := NewTimezoneResolver(in.Timezones, opts.DefaultTimezone)
	hours := NewHoursIndex(in.Hours)

	byStore := make(map[string][]StatusRow)
	for _, r := range in.Statuses {
		byStore[r.StoreID] = append(byStore[r.StoreID], r)
	}
	storeIDs := make([]string, 0, len(byStore))
	for id := range byStore {
		storeIDs = append(storeIDs, id)
	}
	slices.Sort(storeIDs)

	rep := &Report{ReferenceTime: ref, Rows: make([]Row, 0, len(storeIDs))}
	for _, id := range storeIDs {
		row, err := storeRow(id, byStore[id], ref, zones, hours)
		if err != nil {
			if opts.FailFast {
				return nil, fmt.Errorf("report aborted: %w", err)
			}
			log.Printf("Skipping store %s: %v", id, err)
			rep.Skipped = append(rep.Skipped, err)
			continue
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep, nil
}

func referenceTime(rows []StatusRow) (time.Time, bool) {
	var ref time.Time
	for _, r := range rows {
		if r.TimestampUTC.After(ref) {
			ref = r.TimestampUTC
		}
	}
	return ref.UTC(), !ref.IsZero()
}

func storeRow(storeID string, rows []StatusRow, ref time.Time, zones *TimezoneResolver, hours *HoursIndex) (Row, error) {
	loc, err := zones.Resolve(storeID)
	if err != nil {
		return Row{}, err
	}
	weekly, err := hours.Weekly(storeID)
	if err != nil {
		return Row{}, err
	}

	obs := make([]Observation, 0, len(rows))
	for _, r := range rows {
		if r.TimestampUTC.IsZero() {
			return Row{}, malformed(ErrMalformedTimestamp, storeID, "timestamp_utc", "", errors.New("zero timestamp"))
		}
		active, err := parse.Status(r.Status)
		if err != nil {
			return Row{}, malformed(ErrMalformedStatus, storeID, "status", r.Status, err)
		}
		obs = append(obs, Observation{At: r.TimestampUTC.UTC(), Active: active})
	}
	series := NewSeries(obs)

	hour := Accumulate(series, ref.Add(-LastHour), ref, weekly, loc)
	dayT := Accumulate(series, ref.Add(-LastDay), ref, weekly, loc)
	week := Accumulate(series, ref.Add(-LastWeek), ref, weekly, loc)

	return Row{
		StoreID:          storeID,
		UptimeLastHour:   round2(hour.ActiveMinutes()),
		UptimeLastDay:    round2(dayT.Active.Hours()),
		UptimeLastWeek:   round2(week.Active.Hours()),
		DowntimeLastHour: round2(hour.InactiveMinutes()),
		DowntimeLastDay:  round2(dayT.Inactive.Hours()),
		DowntimeLastWeek: round2(week.Inactive.Hours()),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
