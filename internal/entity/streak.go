package entity

import (
	"time"

	"github.com/th3void/lotus-routine/pkg/enum"
)

type StreakType string

var (
	StreakDailyLog = enum.New(StreakType("daily_log"))
	StreakHabit    = enum.New(StreakType("habit"))
)

// Streak counters follow the calendar, not a rolling window: an activity on
// the day after the last one extends the run, the same day changes nothing,
// anything later restarts at one.
type Streak struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Type StreakType `gorm:"primaryKey"`

	CurrentCount     int
	LongestCount     int
	LastActivityDate time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
