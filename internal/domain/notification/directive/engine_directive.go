package directive

// REGISTER CHANNEL
type EngineRegisterChannelDirective struct {
	ChannelID int64 `json:"channel_id"`
}

func NewRegisterChannelDirective(channelID int64) *ClientDirective {
	return &ClientDirective{
		Op:   EngineRegisterChannelDirectiveOp,
		Data: EngineRegisterChannelDirective{ChannelID: channelID},
	}
}

// UNREGISTER CHANNEL
type EngineUnregisterChannelDirective struct {
	ChannelID int64 `json:"channel_id"`
}

func NewUnregisterChannelDirective(channelID int64) *ClientDirective {
	return &ClientDirective{
		Op:   EngineUnregisterChannelDirectiveOp,
		Data: EngineUnregisterChannelDirective{ChannelID: channelID},
	}
}

// REGISTER USER
type EngineRegisterUserDirective struct {
	UserID string `json:"user_id"`
}

func NewRegisterUserDirective(userID string) *ClientDirective {
	return &ClientDirective{
		Op:   EngineRegisterUserDirectiveOp,
		Data: EngineRegisterUserDirective{UserID: userID},
	}
}

// UNREGISTER USER
type EngineUnregisterUserDirective struct {
	UserID string `json:"user_id"`
}

func NewUnregisterUserDirective(userID string) *ClientDirective {
	return &ClientDirective{
		Op:   EngineUnregisterUserDirectiveOp,
		Data: EngineUnregisterUserDirective{UserID: userID},
	}
}
