package entity

import (
	"database/sql"
	"time"
)

type Goal struct {
	Base
	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Title       string
	Description string
	TargetDate  time.Time `gorm:"type:date"`
	IsCompleted bool
	CompletedAt sql.NullTime
}
