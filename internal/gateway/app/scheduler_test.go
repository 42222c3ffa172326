package app

import (
	"context"
	"testing"
	"time"

	"social_chat_service/internal/gateway/domain"
	"social_chat_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// 測試 Sweep：到期的 live 訊息轉 expired 並 fanout
func TestExpiryScheduler_SweepExpiresDueMessage(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	roomID := uuid.New().String()
	messageID := uuid.New().String()

	mockExpiry := new(MockExpiryRepository)
	mockMsgRepo := new(MockMessageRepository)
	mockPubSub := new(MockPubSub)

	target := &domain.Message{
		ID: messageID, RoomID: roomID, Content: "secret", State: domain.StateLive,
	}
	mockExpiry.On("Due", ctx, mock.Anything).Return([]string{messageID}, nil)
	mockMsgRepo.On("FindByID", ctx, messageID).Return(target, nil)
	mockMsgRepo.On("Update", ctx, mock.Anything).Return(nil)
	mockExpiry.On("Remove", ctx, messageID).Return(nil)
	mockPubSub.On("Publish", domain.RoomChannel(roomID), mock.Anything).Return(nil)

	s := NewExpiryScheduler(mockExpiry, mockMsgRepo, NewChannelHub(mockPubSub), NewKeyedMutex(), time.Second)
	s.Sweep(ctx)

	assert.Equal(t, domain.StateExpired, target.State)
	assert.Equal(t, domain.ExpiredText, target.Content)
	assert.NotZero(t, target.ExpiredAt)

	mockExpiry.AssertExpectations(t)
	mockMsgRepo.AssertExpectations(t)
	mockPubSub.AssertExpectations(t)
}

// 測試 Sweep：已刪除的訊息不再轉 expired，只清索引
func TestExpiryScheduler_SweepSkipsDeletedMessage(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	messageID := uuid.New().String()

	mockExpiry := new(MockExpiryRepository)
	mockMsgRepo := new(MockMessageRepository)
	mockPubSub := new(MockPubSub)

	target := &domain.Message{
		ID: messageID, RoomID: "r1", Content: domain.TombstoneText, State: domain.StateDeleted,
	}
	mockExpiry.On("Due", ctx, mock.Anything).Return([]string{messageID}, nil)
	mockMsgRepo.On("FindByID", ctx, messageID).Return(target, nil)
	mockExpiry.On("Remove", ctx, messageID).Return(nil)

	s := NewExpiryScheduler(mockExpiry, mockMsgRepo, NewChannelHub(mockPubSub), NewKeyedMutex(), time.Second)
	s.Sweep(ctx)

	// 狀態不變，無 Update、無 Publish
	assert.Equal(t, domain.StateDeleted, target.State)
	mockMsgRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockPubSub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	mockExpiry.AssertExpectations(t)
}

// 測試 Sweep：訊息不存在時清掉孤兒索引
func TestExpiryScheduler_SweepRemovesOrphanEntry(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	messageID := uuid.New().String()

	mockExpiry := new(MockExpiryRepository)
	mockMsgRepo := new(MockMessageRepository)

	mockExpiry.On("Due", ctx, mock.Anything).Return([]string{messageID}, nil)
	mockMsgRepo.On("FindByID", ctx, messageID).Return(nil, nil)
	mockExpiry.On("Remove", ctx, messageID).Return(nil)

	s := NewExpiryScheduler(mockExpiry, mockMsgRepo, NewChannelHub(new(MockPubSub)), NewKeyedMutex(), time.Second)
	s.Sweep(ctx)

	mockExpiry.AssertExpectations(t)
}

// 測試 Run：ctx 取消後結束
func TestExpiryScheduler_RunStopsOnCancel(t *testing.T) {
	logger.SetNewNop()

	mockExpiry := new(MockExpiryRepository)
	mockExpiry.On("Due", mock.Anything, mock.Anything).Return([]string{}, nil).Maybe()

	s := NewExpiryScheduler(mockExpiry, new(MockMessageRepository),
		NewChannelHub(new(MockPubSub)), NewKeyedMutex(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
