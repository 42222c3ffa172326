package app

import (
	"testing"

	"social_chat_service/internal/gateway/domain"
	"social_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// 測試 Join：重複訂閱同一 channel 為 no-op
func TestChannelHub_JoinIdempotent(t *testing.T) {
	logger.SetNewNop()

	mockPubSub := new(MockPubSub)
	mockPubSub.On("Subscribe", "chan:room:r1", mock.Anything).Return(nil).Once()

	hub := NewChannelHub(mockPubSub)
	client := NewClient("conn-1", "u1", "alice", new(MockConn), 8)

	assert.NoError(t, hub.Join(client, "chan:room:r1"))
	assert.NoError(t, hub.Join(client, "chan:room:r1"))

	mockPubSub.AssertExpectations(t)
}

// 測試訂閱 handler：一般事件入隊，帶自己 origin 的事件被略過
func TestChannelHub_HandlerSkipsOwnOrigin(t *testing.T) {
	logger.SetNewNop()

	var handler func(domain.Event)
	mockPubSub := new(MockPubSub)
	mockPubSub.On("Subscribe", "chan:room:r1", mock.Anything).
		Run(func(args mock.Arguments) {
			handler = args.Get(1).(func(domain.Event))
		}).
		Return(nil)

	hub := NewChannelHub(mockPubSub)
	client := NewClient("conn-1", "u1", "alice", new(MockConn), 8)
	assert.NoError(t, hub.Join(client, "chan:room:r1"))

	handler(domain.Event{Event: domain.EventMessageNew})
	handler(domain.Event{Event: "typing:start", Origin: "conn-1"})
	handler(domain.Event{Event: "typing:start", Origin: "conn-other"})

	assert.Len(t, client.out, 2)
	first := (<-client.out).(domain.Event)
	assert.Equal(t, domain.EventMessageNew, first.Event)
	second := (<-client.out).(domain.Event)
	assert.Equal(t, "conn-other", second.Origin)
}

// 測試 LeaveAll：斷線後全部退訂
func TestChannelHub_LeaveAll(t *testing.T) {
	logger.SetNewNop()

	mockPubSub := new(MockPubSub)
	mockPubSub.On("Subscribe", mock.Anything, mock.Anything).Return(nil)

	hub := NewChannelHub(mockPubSub)
	client := NewClient("conn-1", "u1", "alice", new(MockConn), 8)
	assert.NoError(t, hub.Join(client, "chan:room:r1"))
	assert.NoError(t, hub.Join(client, "chan:user:u1"))

	hub.LeaveAll(client)
	assert.Empty(t, hub.subs[client.ID])

	// 再 Join 需要重新 Subscribe
	assert.NoError(t, hub.Join(client, "chan:room:r1"))
	mockPubSub.AssertNumberOfCalls(t, "Subscribe", 3)
}
