package uptime

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoursIndex(t *testing.T) {
	idx := NewHoursIndex([]BusinessHourRow{
		{StoreID: "s1", DayOfWeek: 0, StartTimeLocal: "09:00:00", EndTimeLocal: "17:00:00"},
		{StoreID: "s1", DayOfWeek: 2, StartTimeLocal: "10:00:00", EndTimeLocal: "12:00:00"},
		{StoreID: "s1", DayOfWeek: 2, StartTimeLocal: "11:00:00", EndTimeLocal: "13:00:00"},
		{StoreID: "night", DayOfWeek: 4, StartTimeLocal: "22:00:00", EndTimeLocal: "02:00:00"},
		{StoreID: "allday", DayOfWeek: 5, StartTimeLocal: "00:00:00", EndTimeLocal: "23:59:59"},
		{StoreID: "bad", DayOfWeek: 0, StartTimeLocal: "09:00:00", EndTimeLocal: "17:00:00"},
		{StoreID: "bad", DayOfWeek: 1, StartTimeLocal: "nine", EndTimeLocal: "17:00:00"},
		{StoreID: "range", DayOfWeek: 9, StartTimeLocal: "09:00:00", EndTimeLocal: "17:00:00"},
	})

	t.Run("Configured weekday", func(t *testing.T) {
		w, ok, err := idx.HoursFor("s1", 0)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, DailyWindow{Open: 9 * time.Hour, Close: 17 * time.Hour}, w)
	})

	t.Run("Missing weekday of a configured store is closed", func(t *testing.T) {
		_, ok, err := idx.HoursFor("s1", 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Duplicate rule keeps the last", func(t *testing.T) {
		w, ok, err := idx.HoursFor("s1", 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, DailyWindow{Open: 11 * time.Hour, Close: 13 * time.Hour}, w)
	})

	t.Run("Store without rules is open all week", func(t *testing.T) {
		for d := 0; d < 7; d++ {
			w, ok, err := idx.HoursFor("unknown", d)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, AllDay, w)
		}
	})

	t.Run("Close before open extends into the next day", func(t *testing.T) {
		w, ok, err := idx.HoursFor("night", 4)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, DailyWindow{Open: 22 * time.Hour, Close: 26 * time.Hour}, w)
	})

	t.Run("Close at 23:59:59 runs to midnight", func(t *testing.T) {
		w, _, err := idx.HoursFor("allday", 5)
		require.NoError(t, err)
		assert.Equal(t, AllDay, w)
	})

	t.Run("Malformed clock poisons only its store", func(t *testing.T) {
		_, _, err := idx.HoursFor("bad", 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedHours))
		var me *MalformedError
		require.True(t, errors.As(err, &me))
		assert.Equal(t, "bad", me.StoreID)
		assert.Equal(t, "start_time_local", me.Field)

		_, ok, err := idx.HoursFor("s1", 0)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Weekday out of range", func(t *testing.T) {
		_, err := idx.Weekly("range")
		assert.ErrorIs(t, err, ErrMalformedHours)
	})
}

func TestDayIndex(t *testing.T) {
	assert.Equal(t, 0, dayIndex(time.Monday))
	assert.Equal(t, 1, dayIndex(time.Tuesday))
	assert.Equal(t, 6, dayIndex(time.Sunday))
}

func TestTimezoneResolver(t *testing.T) {
	r := NewTimezoneResolver([]TimezoneRow{
		{StoreID: "ny", TimezoneName: "America/New_York"},
		{StoreID: "blank", TimezoneName: " "},
		{StoreID: "mars", TimezoneName: "Mars/Olympus_Mons"},
	}, "")

	loc, err := r.Resolve("ny")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())

	loc, err = r.Resolve("missing")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, loc.String())

	loc, err = r.Resolve("blank")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, loc.String())

	_, err = r.Resolve("mars")
	assert.ErrorIs(t, err, ErrMalformedTimezone)

	custom := NewTimezoneResolver(nil, "UTC")
	loc, err = custom.Resolve("any")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
