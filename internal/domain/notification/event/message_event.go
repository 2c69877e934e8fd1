package event

import "github.com/th3void/lotus-routine/internal/model"

// MESSAGE CREATED EVENT
//
// The message carries the sender's ref, so the sending client can replace
// its optimistic placeholder instead of appending a duplicate.
type MessageCreatedEvent model.ChatMessage

func (*MessageCreatedEvent) Op() string {
	return "message_created"
}

// MESSAGE DELETED EVENT
type MessageDeletedEvent struct {
	ChannelID int64 `json:"channel_id,string"`
	MessageID int64 `json:"message_id,string"`
}

func (*MessageDeletedEvent) Op() string {
	return "message_deleted"
}
