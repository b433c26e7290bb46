package uptime

import (
	"strconv"
	"time"

	"store-monitor-backend/internal/parse"
)

const day = 24 * time.Hour

// endOfDayClock is the latest close time that still means "until midnight".
// Input data encodes all-day opening as 00:00:00-23:59:59.
const endOfDayClock = day - time.Second

// DailyWindow is a business-hour window relative to local midnight of the
// day it opens on. Close may exceed 24h when the window crosses midnight.
type DailyWindow struct {
	Open  time.Duration
	Close time.Duration
}

// AllDay is the window of a store that is open around the clock.
var AllDay = DailyWindow{Open: 0, Close: day}

// newDailyWindow builds a window from clock values. A close at or before the
// open time is moved to the following day.
func newDailyWindow(open, closeAt time.Duration) DailyWindow {
	if closeAt >= endOfDayClock {
		closeAt = day
	}
	if closeAt <= open {
		closeAt += day
	}
	return DailyWindow{Open: open, Close: closeAt}
}

// WeeklyHours maps business-hours weekdays (0 = Monday) to windows.
type WeeklyHours struct {
	days [7]DailyWindow
	open [7]bool
}

// AlwaysOpen returns hours for a store without any configured rule.
func AlwaysOpen() WeeklyHours {
	var w WeeklyHours
	for d := range w.days {
		w.days[d] = AllDay
		w.open[d] = true
	}
	return w
}

// For returns the window for a weekday, or false when the store is closed.
func (w WeeklyHours) For(dayOfWeek int) (DailyWindow, bool) {
	if dayOfWeek < 0 || dayOfWeek > 6 || !w.open[dayOfWeek] {
		return DailyWindow{}, false
	}
	return w.days[dayOfWeek], true
}

// dayIndex converts a Go weekday to the 0 = Monday numbering.
func dayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// BusinessHourRow is one raw business-hours record.
type BusinessHourRow struct {
	StoreID        string
	DayOfWeek      int
	StartTimeLocal string
	EndTimeLocal   string
}

// HoursIndex resolves business hours per store and weekday. A store with
// no rules is open every day; a store with rules for some weekdays is
// closed on the others.
type HoursIndex struct {
	stores map[string]WeeklyHours
	errs   map[string]error
}

// NewHoursIndex indexes rows by store. A later rule for the same store and
// weekday replaces an earlier one. Malformed rows poison only their store.
func NewHoursIndex(rows []BusinessHourRow) *HoursIndex {
	idx := &HoursIndex{
		stores: make(map[string]WeeklyHours),
		errs:   make(map[string]error),
	}
	for _, r := range rows {
		if _, bad := idx.errs[r.StoreID]; bad {
			continue
		}
		w, err := ruleWindow(r)
		if err != nil {
			idx.errs[r.StoreID] = err
			delete(idx.stores, r.StoreID)
			continue
		}
		hours := idx.stores[r.StoreID]
		hours.days[r.DayOfWeek] = w
		hours.open[r.DayOfWeek] = true
		idx.stores[r.StoreID] = hours
	}
	return idx
}

func ruleWindow(r BusinessHourRow) (DailyWindow, error) {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return DailyWindow{}, malformed(ErrMalformedHours, r.StoreID, "day_of_week", strconv.Itoa(r.DayOfWeek), nil)
	}
	open, err := parse.Clock(r.StartTimeLocal)
	if err != nil {
		return DailyWindow{}, malformed(ErrMalformedHours, r.StoreID, "start_time_local", r.StartTimeLocal, err)
	}
	closeAt, err := parse.Clock(r.EndTimeLocal)
	if err != nil {
		return DailyWindow{}, malformed(ErrMalformedHours, r.StoreID, "end_time_local", r.EndTimeLocal, err)
	}
	return newDailyWindow(open, closeAt), nil
}

// Weekly returns the full week of hours for a store.
func (x *HoursIndex) Weekly(storeID string) (WeeklyHours, error) {
	if err, bad := x.errs[storeID]; bad {
		return WeeklyHours{}, err
	}
	if w, ok := x.stores[storeID]; ok {
		return w, nil
	}
	return AlwaysOpen(), nil
}

// HoursFor returns the store's window on a weekday (0 = Monday).
func (x *HoursIndex) HoursFor(storeID string, dayOfWeek int) (DailyWindow, bool, error) {
	w, err := x.Weekly(storeID)
	if err != nil {
		return DailyWindow{}, false, err
	}
	win, ok := w.For(dayOfWeek)
	return win, ok, nil
}
