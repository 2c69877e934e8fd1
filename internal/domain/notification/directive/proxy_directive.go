package directive

// JOIN CHANNEL
//
// Sent by the browser when it gains access to a channel created after the
// session started, e.g. the other side of a new direct chat.
type ProxyJoinChannelDirective struct {
	ChannelID int64 `json:"channel_id,string"`
}
