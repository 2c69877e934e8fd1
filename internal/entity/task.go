package entity

import (
	"database/sql"
	"time"
)

type Task struct {
	Base
	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	ProjectID sql.NullString
	Project   Project `gorm:"foreignKey:ProjectID"`

	Date        time.Time `gorm:"type:date;index"`
	Title       string
	Hours       float64
	IsCompleted bool
}
