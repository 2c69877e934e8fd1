package pubsub

// Pack is one unit on the wire: a routing key and an opaque payload.
type Pack struct {
	Key []byte
	Msg []byte
}
