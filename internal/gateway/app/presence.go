package app

import (
	"context"
	"sync"
	"time"

	"social_chat_service/internal/gateway/domain"
	"social_chat_service/internal/gateway/repository"
	"social_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// PresenceRegistry 在行程啟動時建構、注入 gateway，而非包級單例。
// 每個 user 只保留最新連線（last-connection-wins）。
type PresenceRegistry struct {
	mu     sync.RWMutex
	online map[string]*Client

	users repository.UserRepository
}

// NewPresenceRegistry create PresenceRegistry
func NewPresenceRegistry(users repository.UserRepository) *PresenceRegistry {
	return &PresenceRegistry{
		online: make(map[string]*Client),
		users:  users,
	}
}

// Register record the connection, return the previous handle if any
func (p *PresenceRegistry) Register(userID string, client *Client) *Client {
	p.mu.Lock()
	prev := p.online[userID]
	p.online[userID] = client
	p.mu.Unlock()

	p.persistStatus(userID, domain.StatusOnline)
	return prev
}

// Unregister remove the mapping and stamp last-seen.
// connID 不符表示已有更新的連線接手，略過。
func (p *PresenceRegistry) Unregister(userID, connID string) {
	p.mu.Lock()
	cur, ok := p.online[userID]
	if !ok || cur.ID != connID {
		p.mu.Unlock()
		return
	}
	delete(p.online, userID)
	p.mu.Unlock()

	p.persistStatus(userID, domain.StatusOffline)
}

// Get return the live connection of userID, nil when offline
func (p *PresenceRegistry) Get(userID string) *Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.online[userID]
}

// IsOnline check userID has a live connection
func (p *PresenceRegistry) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.online[userID]
	return ok
}

// BroadcastPresence notify all other connected peers, best-effort no retry
func (p *PresenceRegistry) BroadcastPresence(userID, username string, status domain.PresenceStatus) {
	event := domain.Event{
		Event: domain.EventUserOnline,
		Payload: map[string]interface{}{
			"user_id":  userID,
			"username": username,
		},
	}
	if status != domain.StatusOnline {
		event.Event = domain.EventUserOffline
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	for uid, client := range p.online {
		if uid == userID {
			continue
		}
		client.Send(event)
	}
}

// persistStatus fire-and-forget durable write；失敗只記 log，不影響連線
func (p *PresenceRegistry) persistStatus(userID string, status domain.PresenceStatus) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.users.SetStatus(ctx, userID, status, time.Now().Unix()); err != nil {
			logger.Log.Error("persist presence status failed",
				zap.String("user", userID), zap.String("status", string(status)), zap.Error(err))
		}
	}()
}
