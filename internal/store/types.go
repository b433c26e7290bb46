package store

import (
	"database/sql/driver"
	"fmt"
	"time"

	"store-monitor-backend/internal/model"
	"store-monitor-backend/internal/parse"
)

// Snapshot is a consistent read of the three source tables. Rows keep
// insertion order so later duplicates can win downstream.
type Snapshot struct {
	Statuses  []model.StoreStatus
	Hours     []model.BusinessHour
	Timezones []model.StoreTimezone
}

// StoreSummary describes the polls recorded for one store.
type StoreSummary struct {
	StoreID      string    `json:"store_id"`
	Observations int64     `json:"observations"`
	FirstSeen    time.Time `json:"first_seen"`
	LastSeen     time.Time `json:"last_seen"`
	Timezone     string    `json:"timezone,omitempty"`
}

// dbTime scans aggregate timestamps. SQLite hands MIN/MAX back as text,
// Postgres as time.Time.
type dbTime struct {
	time.Time
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v.UTC()
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
	return nil
}

func (t *dbTime) parse(s string) error {
	ts, err := parse.Timestamp(s)
	if err != nil {
		return err
	}
	t.Time = ts
	return nil
}

func (t dbTime) Value() (driver.Value, error) {
	return t.Time, nil
}

type summaryRow struct {
	StoreID      string
	Observations int64
	FirstSeen    dbTime
	LastSeen     dbTime
	Timezone     string
}
