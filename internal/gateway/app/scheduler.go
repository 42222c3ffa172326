package app

import (
	"context"
	"time"

	"social_chat_service/internal/gateway/domain"
	"social_chat_service/internal/gateway/repository"
	"social_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// ExpiryScheduler 週期掃描 redis 到期索引，將到期訊息轉為 expired。
// 索引存 redis，重啟後掃描即自動續接，無需逐筆重新掛 timer。
type ExpiryScheduler struct {
	expiry  repository.ExpiryRepository
	msgRepo repository.MessageRepository
	hub     *ChannelHub

	// 與 MessageUseCase 共用
	locks *KeyedMutex

	interval time.Duration
}

// NewExpiryScheduler create ExpiryScheduler
func NewExpiryScheduler(
	expiry repository.ExpiryRepository,
	msgRepo repository.MessageRepository,
	hub *ChannelHub,
	locks *KeyedMutex,
	interval time.Duration,
) *ExpiryScheduler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &ExpiryScheduler{
		expiry:   expiry,
		msgRepo:  msgRepo,
		hub:      hub,
		locks:    locks,
		interval: interval,
	}
}

// Run sweep until ctx cancelled；timer 獨立於任何連線的生命週期
func (s *ExpiryScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep expire every due message once
func (s *ExpiryScheduler) Sweep(ctx context.Context) {
	due, err := s.expiry.Due(ctx, time.Now())
	if err != nil {
		logger.Log.Error("expiry sweep failed", zap.Error(err))
		return
	}

	for _, messageID := range due {
		s.expireOne(ctx, messageID)
	}
}

func (s *ExpiryScheduler) expireOne(ctx context.Context, messageID string) {
	unlock := s.locks.Lock(messageID)
	defer unlock()

	msg, err := s.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		// 下一輪重試，索引項保留
		logger.Log.Error("expire load failed", zap.String("message", messageID), zap.Error(err))
		return
	}
	if msg == nil {
		s.removeIndex(ctx, messageID)
		return
	}

	// 先刪除者優先；misfire 靜默吞掉
	if msg.IsTerminal() {
		s.removeIndex(ctx, messageID)
		return
	}

	msg.State = domain.StateExpired
	msg.ExpiredAt = time.Now().Unix()
	msg.Content = domain.ExpiredText
	if err := s.msgRepo.Update(ctx, msg); err != nil {
		logger.Log.Error("expire update failed", zap.String("message", messageID), zap.Error(err))
		return
	}

	s.removeIndex(ctx, messageID)

	event := domain.Event{
		Event:   domain.EventMessageExpired,
		Payload: map[string]interface{}{"message_id": msg.ID},
	}
	if err := s.hub.Publish(msg.ChannelID(), event); err != nil {
		logger.Log.Error("publish message:expired failed", zap.String("message", msg.ID), zap.Error(err))
	}
}

func (s *ExpiryScheduler) removeIndex(ctx context.Context, messageID string) {
	if err := s.expiry.Remove(ctx, messageID); err != nil {
		logger.Log.Error("expiry index remove failed", zap.String("message", messageID), zap.Error(err))
	}
}
