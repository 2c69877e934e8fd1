package entity

import (
	"time"

	"github.com/th3void/lotus-routine/pkg/enum"
)

type GroupRole string

var (
	GroupRoleAdmin  = enum.New(GroupRole("admin"))
	GroupRoleMember = enum.New(GroupRole("member"))
)

type Group struct {
	Base
	OwnerID string `gorm:"index"`
	Owner   User   `gorm:"foreignKey:OwnerID"`

	Name        string
	Description string
	InviteCode  string `gorm:"unique"`
	IsPrivate   bool

	// TrendingScore is recomputed by cron from recent chat activity and
	// member count; public listing orders by it.
	TrendingScore float64
}

// GroupMember rows are hard deleted on leave so the composite key is free
// when the user joins again.
type GroupMember struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	GroupID string `gorm:"primaryKey"`
	Group   Group  `gorm:"foreignKey:GroupID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Role GroupRole `gorm:"default:member"`
}
