package entity

import "time"

type Habit struct {
	Base
	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Name          string
	Color         string `gorm:"default:#ebedf0"`
	TargetPerWeek int
	IsArchived    bool
}

// HabitCompletion is a toggle: at most one row per habit per day, removed
// when the user unchecks the day.
type HabitCompletion struct {
	HabitID string `gorm:"primaryKey"`
	Habit   Habit  `gorm:"foreignKey:HabitID"`

	Date time.Time `gorm:"primaryKey;type:date"`

	UserID    string `gorm:"index"`
	User      User   `gorm:"foreignKey:UserID"`
	CreatedAt time.Time
}
