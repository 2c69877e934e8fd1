package entity

import (
	"time"

	"github.com/th3void/lotus-routine/pkg/enum"
)

type MessageType string

var (
	MessageText    = enum.New(MessageType("text"))
	MessageGif     = enum.New(MessageType("gif"))
	MessageSticker = enum.New(MessageType("sticker"))
)

// ChatMessage lives in ScyllaDB, partitioned by (channel_id, bucket) and
// sorted by id. Content holds the encryption envelope, never plaintext.
type ChatMessage struct {
	ID            int64
	ChannelID     int64
	Bucket        int64
	AuthorID      string
	RecipientID   string
	Type          string
	Content       string
	AttachmentURL string
	ReplyTo       int64
	IsDeleted     bool
	CreatedAt     time.Time
}

func (t *ChatMessage) TableName() string {
	return "messages"
}
