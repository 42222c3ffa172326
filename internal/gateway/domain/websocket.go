package domain

// Action websocket request action
type Action string

const (
	// ActionRoomJoin websocket action room:join
	ActionRoomJoin Action = "room:join"
	// ActionRoomLeave websocket action room:leave
	ActionRoomLeave Action = "room:leave"

	// ActionTypingStart websocket action typing:start
	ActionTypingStart Action = "typing:start"
	// ActionTypingStop websocket action typing:stop
	ActionTypingStop Action = "typing:stop"
	// ActionPollUpdate websocket action poll:update
	ActionPollUpdate Action = "poll:update"

	// ActionMessageRoom websocket action message:room
	ActionMessageRoom Action = "message:room"
	// ActionMessagePrivate websocket action message:private
	ActionMessagePrivate Action = "message:private"
	// ActionMessageEdit websocket action message:edit
	ActionMessageEdit Action = "message:edit"
	// ActionMessageDelete websocket action message:delete
	ActionMessageDelete Action = "message:delete"
	// ActionMessageReact websocket action message:react
	ActionMessageReact Action = "message:react"
	// ActionMessageRead websocket action message:read
	ActionMessageRead Action = "message:read"
	// ActionMessagePin websocket action message:pin
	ActionMessagePin Action = "message:pin"
	// ActionMessageUnpin websocket action message:unpin
	ActionMessageUnpin Action = "message:unpin"
)

const (
	// EventMessageNew gateway event message:new
	EventMessageNew = "message:new"
	// EventMessageEdited gateway event message:edited
	EventMessageEdited = "message:edited"
	// EventMessageDeleted gateway event message:deleted
	EventMessageDeleted = "message:deleted"
	// EventMessageReacted gateway event message:reacted
	EventMessageReacted = "message:reacted"
	// EventMessageRead gateway event message:read
	EventMessageRead = "message:read"
	// EventMessageExpired gateway event message:expired
	EventMessageExpired = "message:expired"
	// EventMessagePinned gateway event message:pinned
	EventMessagePinned = "message:pinned"
	// EventMessageUnpinned gateway event message:unpinned
	EventMessageUnpinned = "message:unpinned"
	// EventUserOnline gateway event user:online
	EventUserOnline = "user:online"
	// EventUserOffline gateway event user:offline
	EventUserOffline = "user:offline"
	// EventMention gateway event mention:notification
	EventMention = "mention:notification"
	// EventError gateway event error, sent to the originating connection only
	EventError = "error"
)

// WSRequest websocket Request
type WSRequest struct {
	Action string `json:"action"`

	RoomID      string `json:"room_id,omitempty"`
	ChatID      string `json:"chat_id,omitempty"`
	RecipientID string `json:"recipient_id,omitempty"`

	Content           string       `json:"content,omitempty"`
	MessageType       string       `json:"message_type,omitempty"`
	Attachments       []Attachment `json:"attachments,omitempty"`
	ReplyTo           string       `json:"reply_to,omitempty"`
	DisappearingAfter int          `json:"disappearing_after,omitempty"`

	MessageID string `json:"message_id,omitempty"`
	Emoji     string `json:"emoji,omitempty"`

	Payload map[string]interface{} `json:"payload,omitempty"`
}

// WSResponse websocket direct Response to the requesting connection
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Kind    string                 `json:"kind,omitempty"`
}

// Event fanout event delivered to channel subscribers
type Event struct {
	Event string `json:"event"`
	// Origin 發送端連線 id，ephemeral 訊號用來排除自己
	Origin  string                 `json:"origin,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// RoomChannel fanout channel name of a room
func RoomChannel(roomID string) string {
	return "chan:room:" + roomID
}

// ChatChannel fanout channel name of a private chat
func ChatChannel(chatID string) string {
	return "chan:chat:" + chatID
}

// UserChannel personal fanout channel of a user
func UserChannel(userID string) string {
	return "chan:user:" + userID
}
