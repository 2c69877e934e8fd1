package model

type CreateDirectChannelRequest struct {
	UserID string `json:"user_id"`
}

type CreateDirectChannelResponse struct {
	Channel ChatChannel `json:"channel"`
}

type GetChannelsRequest struct{}

type GetChannelsResponse struct {
	Channels []ChatChannel `json:"channels"`
}

type SendMessageRequest struct {
	ChannelID int64 `json:"channel_id,string"`

	// Ref is a client-chosen idempotency key: one optimistic placeholder,
	// one ref, one stored message. Retries with the same ref return the
	// message created the first time.
	Ref string `json:"ref"`

	Type          string `json:"type"`
	Content       string `json:"content"`
	AttachmentURL string `json:"attachment_url"`
	ReplyTo       int64  `json:"reply_to,string"`
}

type SendMessageResponse struct {
	Message ChatMessage `json:"message"`
}

type GetMessagesRequest struct {
	ChannelID int64 `json:"channel_id,string"`
	Before    int64 `json:"before,string"`
	Limit     int   `json:"limit"`
}

type GetMessagesResponse struct {
	Messages []ChatMessage `json:"messages"`
}

type DeleteMessageRequest struct {
	ChannelID int64 `json:"channel_id,string"`
	ID        int64 `json:"id,string"`
}

type DeleteMessageResponse struct{}
