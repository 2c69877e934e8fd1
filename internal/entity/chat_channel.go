package entity

import (
	"database/sql"

	"github.com/th3void/lotus-routine/pkg/enum"
)

type ChannelType string

var (
	ChannelDirect = enum.New(ChannelType("direct"))
	ChannelGroup  = enum.New(ChannelType("group"))
)

// ChatChannel ids are snowflakes; the id therefore fixes the oldest message
// bucket a reader ever needs to walk.
type ChatChannel struct {
	SnowFlakeBase
	Type ChannelType

	// DirectKey is "smallerUserID:largerUserID", so a pair maps to exactly
	// one channel no matter who opened it. UserAID holds the smaller id.
	DirectKey sql.NullString `gorm:"unique"`
	UserAID   sql.NullString `gorm:"index"`
	UserBID   sql.NullString `gorm:"index"`

	GroupID sql.NullString `gorm:"index"`
	Group   Group          `gorm:"foreignKey:GroupID"`

	LastMessageID int64
}
