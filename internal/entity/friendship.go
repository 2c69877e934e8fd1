package entity

import "github.com/th3void/lotus-routine/pkg/enum"

type FriendshipStatus string

var (
	FriendshipPending  = enum.New(FriendshipStatus("pending"))
	FriendshipAccepted = enum.New(FriendshipStatus("accepted"))
)

// Friendship keeps one row per pair. The requester/target order records who
// asked; both directions are checked before inserting so the unordered pair
// stays unique.
type Friendship struct {
	Base
	RequesterID string `gorm:"uniqueIndex:idx_friendships_pair"`
	Requester   User   `gorm:"foreignKey:RequesterID"`

	TargetID string `gorm:"uniqueIndex:idx_friendships_pair"`
	Target   User   `gorm:"foreignKey:TargetID"`

	Status FriendshipStatus
}
