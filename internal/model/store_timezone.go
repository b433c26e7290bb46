package model

// StoreTimezone maps a store to its IANA timezone name (table timezone).
type StoreTimezone struct {
	StoreID     string `gorm:"primaryKey;size:64"`
	TimezoneStr string `gorm:"column:timezone_str;size:64;not null"`
}

func (StoreTimezone) TableName() string {
	return "timezone"
}
