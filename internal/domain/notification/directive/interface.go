package directive

import "encoding/json"

type DirectiveOp int64

const (
	// Engine directives (proxy -> engine)
	EngineRegisterChannelDirectiveOp   DirectiveOp = 1000
	EngineUnregisterChannelDirectiveOp DirectiveOp = 1001
	EngineRegisterUserDirectiveOp      DirectiveOp = 1002
	EngineUnregisterUserDirectiveOp    DirectiveOp = 1003

	// Proxy directives (browser -> proxy)
	ProxyPingDirectiveOp        DirectiveOp = 2000
	ProxyJoinChannelDirectiveOp DirectiveOp = 2001
)

type ClientDirective struct {
	Op   DirectiveOp `json:"op"`
	Data any         `json:"data"`
}

type ServerDirective struct {
	Op   DirectiveOp     `json:"op"`
	Data json.RawMessage `json:"data"`
}
