package app

import (
	"context"
	"sync"

	"social_chat_service/internal/gateway/domain"
	"social_chat_service/internal/gateway/repository"
)

// ChannelHub 管理連線對邏輯 channel 的訂閱與事件發布。
// 同一 channel 的發布順序對每個訂閱者一致（pub/sub 保序），
// 無訂閱者的發布為靜默 no-op。
type ChannelHub struct {
	pubsub repository.PubSub

	mu sync.Mutex
	// conn id -> channel id -> cancel
	subs map[string]map[string]context.CancelFunc
}

// NewChannelHub create ChannelHub
func NewChannelHub(pubsub repository.PubSub) *ChannelHub {
	return &ChannelHub{
		pubsub: pubsub,
		subs:   make(map[string]map[string]context.CancelFunc),
	}
}

// Join subscribe client to channelID, idempotent
func (h *ChannelHub) Join(client *Client, channelID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	chans := h.subs[client.ID]
	if chans == nil {
		chans = make(map[string]context.CancelFunc)
		h.subs[client.ID] = chans
	}
	if _, ok := chans[channelID]; ok {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := h.pubsub.Subscribe(ctx, channelID, func(event domain.Event) {
		// ephemeral 訊號帶 origin，不回送給發送端
		if event.Origin != "" && event.Origin == client.ID {
			return
		}
		client.Send(event)
	}); err != nil {
		cancel()
		return err
	}
	chans[channelID] = cancel
	return nil
}

// Leave unsubscribe client from channelID
func (h *ChannelHub) Leave(client *Client, channelID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if chans, ok := h.subs[client.ID]; ok {
		if cancel, ok := chans[channelID]; ok {
			cancel()
			delete(chans, channelID)
		}
	}
}

// LeaveAll unsubscribe client from every channel, used on disconnect
func (h *ChannelHub) LeaveAll(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if chans, ok := h.subs[client.ID]; ok {
		for _, cancel := range chans {
			cancel()
		}
		delete(h.subs, client.ID)
	}
}

// Publish deliver event to every current subscriber of channelID
func (h *ChannelHub) Publish(channelID string, event domain.Event) error {
	return h.pubsub.Publish(channelID, event)
}
