package event

import "github.com/th3void/lotus-routine/internal/model"

// CHANNEL CREATED EVENT
type ChannelCreatedEvent struct {
	model.ChatChannel
}

func (*ChannelCreatedEvent) Op() string {
	return "channel_created"
}

// CHANNEL DELETED EVENT
type ChannelDeletedEvent struct {
	ChannelID int64 `json:"channel_id,string"`
}

func (*ChannelDeletedEvent) Op() string {
	return "channel_deleted"
}
