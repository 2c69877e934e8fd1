package common

// MessagePersistedTopic carries every stored chat message. The subscriber
// service consumes it to create notifications for direct recipients.
const MessagePersistedTopic = "message_persisted"
