package app

import (
	"context"
	"time"

	"social_chat_service/internal/gateway/domain"

	"github.com/stretchr/testify/mock"
)

// MockRoomRepository Mock RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

// FindByID moke find room by room id
func (m *MockRoomRepository) FindByID(ctx context.Context, roomID string) (*domain.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByMember moke find rooms by member
func (m *MockRoomRepository) FindByMember(ctx context.Context, userID string) ([]domain.Room, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// AddPinned moke add message to room pinned list
func (m *MockRoomRepository) AddPinned(ctx context.Context, roomID, messageID string) error {
	args := m.Called(ctx, roomID, messageID)
	return args.Error(0)
}

// RemovePinned moke remove message from room pinned list
func (m *MockRoomRepository) RemovePinned(ctx context.Context, roomID, messageID string) error {
	args := m.Called(ctx, roomID, messageID)
	return args.Error(0)
}

// MockPrivateChatRepository Mock PrivateChatRepository
type MockPrivateChatRepository struct {
	mock.Mock
}

// Create moke create private chat
func (m *MockPrivateChatRepository) Create(ctx context.Context, chat *domain.PrivateChat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

// FindByID moke find chat by chat id
func (m *MockPrivateChatRepository) FindByID(ctx context.Context, chatID string) (*domain.PrivateChat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.PrivateChat), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByPair moke find chat by participant pair
func (m *MockPrivateChatRepository) FindByPair(ctx context.Context, userA, userB string) (*domain.PrivateChat, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.PrivateChat), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByParticipant moke find chats by participant
func (m *MockPrivateChatRepository) FindByParticipant(ctx context.Context, userID string) ([]domain.PrivateChat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.PrivateChat), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert moke insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindByID moke find message by message id
func (m *MockMessageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// Update moke update message
func (m *MockMessageRepository) Update(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockUserRepository Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

// FindByID moke find user by user id
func (m *MockUserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByUsername moke find user by username
func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// SetStatus moke set user presence status
func (m *MockUserRepository) SetStatus(ctx context.Context, userID string, status domain.PresenceStatus, lastSeen int64) error {
	args := m.Called(ctx, userID, status, lastSeen)
	return args.Error(0)
}

// MockExpiryRepository Mock ExpiryRepository
type MockExpiryRepository struct {
	mock.Mock
}

// Arm moke arm expiry
func (m *MockExpiryRepository) Arm(ctx context.Context, messageID string, expireAt time.Time) error {
	args := m.Called(ctx, messageID, expireAt)
	return args.Error(0)
}

// Due moke list due message ids
func (m *MockExpiryRepository) Due(ctx context.Context, now time.Time) ([]string, error) {
	args := m.Called(ctx, now)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// Remove moke remove expiry entry
func (m *MockExpiryRepository) Remove(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// MockPubSub Mock PubSub
type MockPubSub struct {
	mock.Mock
}

// Publish moke publisher
func (m *MockPubSub) Publish(channel string, event domain.Event) error {
	args := m.Called(channel, event)
	return args.Error(0)
}

// Subscribe moke subscriber
func (m *MockPubSub) Subscribe(ctx context.Context, channel string, handler func(event domain.Event)) error {
	args := m.Called(channel, handler)
	return args.Error(0)
}

// MockConn moke websocket conn, records everything written
type MockConn struct {
	mock.Mock
}

// WriteJSON moke write
func (m *MockConn) WriteJSON(v interface{}) error {
	args := m.Called(v)
	return args.Error(0)
}

// Close moke close
func (m *MockConn) Close() error {
	args := m.Called()
	return args.Error(0)
}
