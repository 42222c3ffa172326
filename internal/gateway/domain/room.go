package domain

import (
	"strings"

	"social_chat_service/pkg"
)

// Room definition durable multi-party channel
type Room struct {
	ID        string   `bson:"_id" json:"id"`
	Name      string   `bson:"name,omitempty" json:"name,omitempty"`
	CreatorID string   `bson:"creator_id" json:"creator_id"`
	Members   []string `bson:"members,omitempty" json:"members,omitempty"`
	Admins    []string `bson:"admins,omitempty" json:"admins,omitempty"`

	// PinnedMessages 與各訊息的 pin 狀態保持同步
	PinnedMessages []string `bson:"pinned_messages,omitempty" json:"pinned_messages,omitempty"`
	CreatedAt      int64    `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// IsMember check userID in members
func (r *Room) IsMember(userID string) bool {
	return pkg.Contains(r.Members, userID)
}

// IsAdmin check userID is admin or creator
func (r *Room) IsAdmin(userID string) bool {
	return userID == r.CreatorID || pkg.Contains(r.Admins, userID)
}

// PrivateChat definition durable two-party channel, unique per unordered pair
type PrivateChat struct {
	ID           string   `bson:"_id" json:"id"`
	PairKey      string   `bson:"pair_key" json:"-"`
	Participants []string `bson:"participants" json:"participants"`
	CreatedAt    int64    `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// HasParticipant check userID in participants
func (c *PrivateChat) HasParticipant(userID string) bool {
	return pkg.Contains(c.Participants, userID)
}

// Peer return the other participant
func (c *PrivateChat) Peer(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// PairKeyOf build the unordered pair key for two user ids
func PairKeyOf(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "|" + b
}
