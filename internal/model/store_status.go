package model

import "time"

// StoreStatus is one status poll of a store (table store_status).
type StoreStatus struct {
	ID           int64     `gorm:"primaryKey"`
	StoreID      string    `gorm:"size:64;not null;index:idx_store_status_store_ts,priority:1"`
	Status       string    `gorm:"size:16;not null"`
	TimestampUTC time.Time `gorm:"column:timestamp_utc;not null;index;index:idx_store_status_store_ts,priority:2"`
}

// TableName keeps the table name used by the source CSV files.
func (StoreStatus) TableName() string {
	return "store_status"
}
