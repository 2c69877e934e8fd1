package event

import "github.com/th3void/lotus-routine/internal/model"

// ReadyEvent is the first event of every proxy session: the channels the
// user may read, so the client knows what it is subscribed to.
type ReadyEvent struct {
	Channels []model.ChatChannel `json:"channels"`
}

func (*ReadyEvent) Op() string {
	return "ready"
}

// NOTIFICATION CREATED EVENT
type NotificationCreatedEvent struct {
	model.Notification
}

func (*NotificationCreatedEvent) Op() string {
	return "notification_created"
}

type UserStatus string

const (
	Online  = UserStatus("online")
	Offline = UserStatus("offline")
)

type ChangeUserStatusEvent struct {
	User   model.ShortUser `json:"user"`
	Status UserStatus      `json:"status"`
}

func (*ChangeUserStatusEvent) Op() string {
	return "change_status"
}
