package app

import (
	"context"
	"testing"

	"social_chat_service/internal/gateway/domain"
	"social_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// 測試 ExtractMentions：去重且保留首次出現順序
func TestExtractMentions(t *testing.T) {
	tokens := ExtractMentions("hey @bob and @alice, ping @bob again")
	assert.Equal(t, []string{"bob", "alice"}, tokens)

	assert.Empty(t, ExtractMentions("no mentions here"))
	assert.Equal(t, []string{"under_score9"}, ExtractMentions("cc @under_score9!"))
}

// 測試 Notify：在線者收到通知，離線與未知 username 靜默略過
func TestMentionNotifier_Notify(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	mockPubSub := new(MockPubSub)

	presence := NewPresenceRegistry(mockUserRepo)
	presence.Register("u-bob", NewClient("conn-b", "u-bob", "bob", new(MockConn), 8))

	mockUserRepo.On("FindByUsername", ctx, "bob").Return(&domain.User{ID: "u-bob", Username: "bob"}, nil)
	mockUserRepo.On("FindByUsername", ctx, "carol").Return(&domain.User{ID: "u-carol", Username: "carol"}, nil)
	mockUserRepo.On("FindByUsername", ctx, "ghost").Return(nil, nil)

	// 只有在線的 bob 會收到
	mockPubSub.On("Publish", domain.UserChannel("u-bob"), mock.Anything).Return(nil).Once()

	n := NewMentionNotifier(mockUserRepo, presence, NewChannelHub(mockPubSub))
	n.Notify(ctx, &domain.Message{
		ID:       "m1",
		SenderID: "u-alice",
		RoomID:   "r1",
		Content:  "hi @bob @carol @ghost",
	}, "general")

	mockPubSub.AssertExpectations(t)
}

// 測試 Notify：私訊提及的 payload 帶 chat_id 而非空的 room 欄位
func TestMentionNotifier_NotifyPrivateChatCarriesChatID(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	mockUserRepo.On("FindByUsername", ctx, "bob").Return(&domain.User{ID: "u-bob", Username: "bob"}, nil)
	mockPubSub := new(MockPubSub)

	presence := NewPresenceRegistry(mockUserRepo)
	presence.Register("u-bob", NewClient("conn-b", "u-bob", "bob", new(MockConn), 8))

	mockPubSub.On("Publish", domain.UserChannel("u-bob"), mock.MatchedBy(func(e domain.Event) bool {
		_, hasRoom := e.Payload["room_id"]
		return e.Payload["chat_id"] == "chat-1" && !hasRoom
	})).Return(nil).Once()

	n := NewMentionNotifier(mockUserRepo, presence, NewChannelHub(mockPubSub))
	n.Notify(ctx, &domain.Message{
		ID: "m1", SenderID: "u-alice", ChatID: "chat-1", Content: "hi @bob",
	}, "")

	mockPubSub.AssertExpectations(t)
}

// 測試 Notify：自我提及不通知
func TestMentionNotifier_NotifySkipsSelfMention(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	mockUserRepo.On("FindByUsername", ctx, "alice").Return(&domain.User{ID: "u-alice", Username: "alice"}, nil)
	mockPubSub := new(MockPubSub)

	presence := NewPresenceRegistry(mockUserRepo)
	presence.Register("u-alice", NewClient("conn-a", "u-alice", "alice", new(MockConn), 8))

	n := NewMentionNotifier(mockUserRepo, presence, NewChannelHub(mockPubSub))
	n.Notify(ctx, &domain.Message{
		ID: "m1", SenderID: "u-alice", RoomID: "r1", Content: "note to self @alice",
	}, "general")

	mockPubSub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
