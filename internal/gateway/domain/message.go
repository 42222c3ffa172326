package domain

import (
	"social_chat_service/pkg"
	"social_chat_service/pkg/linkpreview"
)

// MessageKind definition message content kind
type MessageKind string

const (
	//KindText text message
	KindText MessageKind = "text"
	//KindImage image message
	KindImage MessageKind = "image"
	//KindFile file message
	KindFile MessageKind = "file"
	//KindEmoji emoji message
	KindEmoji MessageKind = "emoji"
	//KindAudio audio message
	KindAudio MessageKind = "audio"
	//KindLocation location message
	KindLocation MessageKind = "location"
	//KindLink link message
	KindLink MessageKind = "link"
)

// MessageState definition message lifecycle state
type MessageState string

const (
	//StateLive message is live
	StateLive MessageState = "live"
	//StateDeleted message was deleted by an actor
	StateDeleted MessageState = "deleted"
	//StateExpired message reached its disappearing TTL
	StateExpired MessageState = "expired"
)

const (
	//TombstoneText body substituted on manual delete
	TombstoneText = "[message deleted]"
	//ExpiredText body substituted on TTL expiry, distinct from delete tombstone
	ExpiredText = "[message expired]"
)

// Attachment definition message attachment
type Attachment struct {
	URL      string `bson:"url" json:"url"`
	Filename string `bson:"filename" json:"filename"`
	Mime     string `bson:"mime" json:"mime"`
}

// ReadReceipt definition one user read stamp
type ReadReceipt struct {
	UserID string `bson:"user_id" json:"user_id"`
	At     int64  `bson:"at" json:"at"`
}

// Message 表示一則訊息，destination 為 room_id / chat_id 其中之一
type Message struct {
	ID         string      `bson:"_id" json:"id"`
	SenderID   string      `bson:"sender_id" json:"sender_id"`
	SenderName string      `bson:"sender_name,omitempty" json:"sender_name,omitempty"`
	RoomID     string      `bson:"room_id,omitempty" json:"room_id,omitempty"`
	ChatID     string      `bson:"chat_id,omitempty" json:"chat_id,omitempty"`
	Kind       MessageKind `bson:"kind" json:"kind"`
	Content    string      `bson:"content" json:"content"`

	Attachments []Attachment        `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Reactions   map[string][]string `bson:"reactions,omitempty" json:"reactions,omitempty"`
	ReadBy      []ReadReceipt       `bson:"read_by,omitempty" json:"read_by,omitempty"`

	// ReplyTo 僅存 id，不嵌入原訊息
	ReplyTo     string               `bson:"reply_to,omitempty" json:"reply_to,omitempty"`
	LinkPreview *linkpreview.Preview `bson:"link_preview,omitempty" json:"link_preview,omitempty"`

	State     MessageState `bson:"state" json:"state"`
	CreatedAt int64        `bson:"created_at" json:"created_at"`
	EditedAt  int64        `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	DeletedAt int64        `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	ExpiredAt int64        `bson:"expired_at,omitempty" json:"expired_at,omitempty"`

	PinnedBy string `bson:"pinned_by,omitempty" json:"pinned_by,omitempty"`
	PinnedAt int64  `bson:"pinned_at,omitempty" json:"pinned_at,omitempty"`

	// DisappearingAfter 以小時計，建立後不可變
	DisappearingAfter int   `bson:"disappearing_after,omitempty" json:"disappearing_after,omitempty"`
	ExpiresAt         int64 `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
}

// ChannelID return the fanout channel of the message destination
func (m *Message) ChannelID() string {
	if m.RoomID != "" {
		return RoomChannel(m.RoomID)
	}
	return ChatChannel(m.ChatID)
}

// IsTerminal check message reached deleted or expired state
func (m *Message) IsTerminal() bool {
	return m.State == StateDeleted || m.State == StateExpired
}

// IsPinned check message pin state
func (m *Message) IsPinned() bool {
	return m.PinnedBy != ""
}

// HasRead check userID already in read_by
func (m *Message) HasRead(userID string) bool {
	for _, r := range m.ReadBy {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// ToggleReaction add or remove userID on emoji, return true when added
func (m *Message) ToggleReaction(userID, emoji string) bool {
	if m.Reactions == nil {
		m.Reactions = make(map[string][]string)
	}
	users := m.Reactions[emoji]
	if pkg.Contains(users, userID) {
		users = pkg.Remove(users, userID)
		if len(users) == 0 {
			delete(m.Reactions, emoji)
		} else {
			m.Reactions[emoji] = users
		}
		return false
	}
	m.Reactions[emoji] = append(users, userID)
	return true
}
