package entity

import "time"

// DailyLog is the one row a user gets per calendar day. Writes are upserts:
// the unique index turns a second create into an update path.
type DailyLog struct {
	Base
	UserID string `gorm:"uniqueIndex:idx_daily_logs_user_date"`
	User   User   `gorm:"foreignKey:UserID"`

	Date        time.Time `gorm:"uniqueIndex:idx_daily_logs_user_date;type:date"`
	Hours       float64
	Description string
}
