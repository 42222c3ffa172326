package app

import (
	"social_chat_service/internal/gateway/domain"
)

// SignalRelay 轉發不落地的瞬時訊號（typing、poll 更新），
// 帶 origin 讓 hub 排除發送端自己
type SignalRelay struct {
	hub *ChannelHub
}

// NewSignalRelay create SignalRelay
func NewSignalRelay(hub *ChannelHub) *SignalRelay {
	return &SignalRelay{hub: hub}
}

// Signal forward kind to every channel subscriber except the origin connection
func (r *SignalRelay) Signal(channelID, kind, originConnID string, payload map[string]interface{}) error {
	switch kind {
	case string(domain.ActionTypingStart), string(domain.ActionTypingStop), string(domain.ActionPollUpdate):
	default:
		return domain.ErrValidation
	}
	if channelID == "" {
		return domain.ErrValidation
	}

	return r.hub.Publish(channelID, domain.Event{
		Event:   kind,
		Origin:  originConnID,
		Payload: payload,
	})
}
