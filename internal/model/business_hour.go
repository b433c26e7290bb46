package model

// BusinessHour is one weekly opening rule of a store (table business_hours).
// DayOfWeek is 0 for Monday through 6 for Sunday; clock values stay text.
type BusinessHour struct {
	ID             int64  `gorm:"primaryKey"`
	StoreID        string `gorm:"size:64;not null;index"`
	DayOfWeek      int    `gorm:"column:day_of_week;not null"`
	StartTimeLocal string `gorm:"size:16;not null"`
	EndTimeLocal   string `gorm:"size:16;not null"`
}

func (BusinessHour) TableName() string {
	return "business_hours"
}
