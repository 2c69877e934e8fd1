package entity

import (
	"database/sql"
	"time"

	"github.com/th3void/lotus-routine/pkg/enum"
)

type ChallengeType string

var (
	// Keep the activity streak at or above a target for the whole window.
	ChallengeDailyStreak = enum.New(ChallengeType("daily_streak"))

	// Log on at least N distinct days each week of the window.
	ChallengeWeeklyDays = enum.New(ChallengeType("weekly_days"))

	// Log every single day of one window week.
	ChallengePerfectWeek = enum.New(ChallengeType("perfect_week"))
)

type Challenge struct {
	Base
	CreatedBy string `gorm:"index"`
	Creator   User   `gorm:"foreignKey:CreatedBy"`

	Title       string
	Description string
	Type        ChallengeType

	// Rule holds the typed rule struct of the challenge type, flattened to a
	// map. Each type knows how to read its own rule back.
	Rule Map `gorm:"type:json"`

	StartDate time.Time `gorm:"type:date"`
	EndDate   time.Time `gorm:"type:date"`
	IsActive  bool      `gorm:"default:true"`
}

type ChallengeParticipant struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	ChallengeID string    `gorm:"primaryKey"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Progress    int
	IsCompleted bool
	CompletedAt sql.NullTime
}
