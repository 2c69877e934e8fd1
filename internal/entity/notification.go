package entity

import "github.com/th3void/lotus-routine/pkg/enum"

type NotificationType string

var (
	NotificationFriendRequest  = enum.New(NotificationType("friend_request"))
	NotificationFriendAccepted = enum.New(NotificationType("friend_accepted"))
	NotificationGroupInvite    = enum.New(NotificationType("group_invite"))
	NotificationGroupKick      = enum.New(NotificationType("group_kick"))
	NotificationGroupOwnership = enum.New(NotificationType("group_ownership"))
	NotificationChallenge      = enum.New(NotificationType("challenge"))
	NotificationBadge          = enum.New(NotificationType("badge"))
	NotificationMessage        = enum.New(NotificationType("message"))
	NotificationBroadcast      = enum.New(NotificationType("broadcast"))
)

type Notification struct {
	Base
	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Type     NotificationType
	Title    string
	Message  string
	Metadata Map `gorm:"type:json"`
	IsRead   bool
}
