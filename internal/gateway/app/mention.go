package app

import (
	"context"
	"regexp"

	"social_chat_service/internal/gateway/domain"
	"social_chat_service/internal/gateway/repository"
	"social_chat_service/pkg"
	"social_chat_service/pkg/logger"

	"go.uber.org/zap"
)

var mentionRegex = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// MentionNotifier best-effort 提及通知：只送給當前在線的被提及者，
// 離線者靜默丟棄，不落地
type MentionNotifier struct {
	users    repository.UserRepository
	presence *PresenceRegistry
	hub      *ChannelHub
}

// NewMentionNotifier create MentionNotifier
func NewMentionNotifier(users repository.UserRepository, presence *PresenceRegistry, hub *ChannelHub) *MentionNotifier {
	return &MentionNotifier{
		users:    users,
		presence: presence,
		hub:      hub,
	}
}

// ExtractMentions return deduped @tokens in order of first appearance
func ExtractMentions(text string) []string {
	matches := mentionRegex.FindAllStringSubmatch(text, -1)
	var tokens []string
	for _, m := range matches {
		if !pkg.Contains(tokens, m[1]) {
			tokens = append(tokens, m[1])
		}
	}
	return tokens
}

// Notify resolve @tokens and deliver mention:notification to online users
func (n *MentionNotifier) Notify(ctx context.Context, msg *domain.Message, channelName string) {
	for _, token := range ExtractMentions(msg.Content) {
		user, err := n.users.FindByUsername(ctx, token)
		if err != nil {
			logger.Log.Error("mention resolve failed", zap.String("token", token), zap.Error(err))
			continue
		}
		// 無此用戶或自我提及：略過
		if user == nil || user.ID == msg.SenderID {
			continue
		}
		if !n.presence.IsOnline(user.ID) {
			continue
		}

		payload := map[string]interface{}{"message": msg}
		if msg.RoomID != "" {
			payload["room_id"] = msg.RoomID
			payload["room_name"] = channelName
		} else {
			// 私訊提及以 chat_id 標識 channel
			payload["chat_id"] = msg.ChatID
		}
		event := domain.Event{
			Event:   domain.EventMention,
			Payload: payload,
		}
		if err := n.hub.Publish(domain.UserChannel(user.ID), event); err != nil {
			logger.Log.Error("mention publish failed", zap.String("user", user.ID), zap.Error(err))
		}
	}
}
