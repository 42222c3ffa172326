package app

import (
	"context"
	"strings"
	"time"

	"social_chat_service/internal/gateway/domain"
	"social_chat_service/internal/gateway/repository"
	"social_chat_service/pkg/linkpreview"
	"social_chat_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageUseCase 負責訊息的生命週期：
// Created → {Edited}* → {Deleted | Expired}，pin/reaction 為正交操作
type MessageUseCase struct {
	roomRepo repository.RoomRepository
	chatRepo repository.PrivateChatRepository
	msgRepo  repository.MessageRepository
	expiry   repository.ExpiryRepository

	hub      *ChannelHub
	mentions *MentionNotifier
	preview  *linkpreview.Fetcher

	// 與 ExpiryScheduler 共用，序列化同一訊息的併發轉換
	locks *KeyedMutex

	previewTimeout time.Duration
}

// NewMessageUseCase init message use case
func NewMessageUseCase(
	roomRepo repository.RoomRepository,
	chatRepo repository.PrivateChatRepository,
	msgRepo repository.MessageRepository,
	expiry repository.ExpiryRepository,
	hub *ChannelHub,
	mentions *MentionNotifier,
	preview *linkpreview.Fetcher,
	locks *KeyedMutex,
	previewTimeout time.Duration,
) *MessageUseCase {
	return &MessageUseCase{
		roomRepo:       roomRepo,
		chatRepo:       chatRepo,
		msgRepo:        msgRepo,
		expiry:         expiry,
		hub:            hub,
		mentions:       mentions,
		preview:        preview,
		locks:          locks,
		previewTimeout: previewTimeout,
	}
}

// CreateMessageParams create message input
type CreateMessageParams struct {
	SenderID   string
	SenderName string

	// destination 二擇一
	RoomID string
	ChatID string

	Content           string
	Kind              domain.MessageKind
	Attachments       []domain.Attachment
	ReplyTo           string
	DisappearingAfter int // hours
}

// Create validate, persist, arm expiry, fan out message:new, then notify mentions
func (uc *MessageUseCase) Create(ctx context.Context, p CreateMessageParams) (*domain.Message, error) {
	if (p.RoomID == "") == (p.ChatID == "") {
		return nil, domain.ErrValidation
	}
	if strings.TrimSpace(p.Content) == "" && len(p.Attachments) == 0 {
		return nil, domain.ErrValidation
	}
	if p.Kind == "" {
		p.Kind = domain.KindText
	}

	// destination 必須存在且 sender 為成員
	var roomName string
	if p.RoomID != "" {
		room, err := uc.roomRepo.FindByID(ctx, p.RoomID)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, domain.ErrNotFound
		}
		if !room.IsMember(p.SenderID) {
			return nil, domain.ErrUnauthorized
		}
		roomName = room.Name
	} else {
		chat, err := uc.chatRepo.FindByID(ctx, p.ChatID)
		if err != nil {
			return nil, err
		}
		if chat == nil {
			return nil, domain.ErrNotFound
		}
		if !chat.HasParticipant(p.SenderID) {
			return nil, domain.ErrUnauthorized
		}
	}

	now := time.Now()
	msg := &domain.Message{
		ID:          uuid.New().String(),
		SenderID:    p.SenderID,
		SenderName:  p.SenderName,
		RoomID:      p.RoomID,
		ChatID:      p.ChatID,
		Kind:        p.Kind,
		Content:     p.Content,
		Attachments: p.Attachments,
		State:       domain.StateLive,
		CreatedAt:   now.Unix(),
		// sender 視為已讀
		ReadBy: []domain.ReadReceipt{{UserID: p.SenderID, At: now.Unix()}},
	}

	// reply_to 只存 id，且必須指向同一 channel 的訊息
	if p.ReplyTo != "" {
		parent, err := uc.msgRepo.FindByID(ctx, p.ReplyTo)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
		if parent.ChannelID() != msg.ChannelID() {
			return nil, domain.ErrValidation
		}
		msg.ReplyTo = p.ReplyTo
	}

	// 連結預覽建立時算一次，失敗不擋訊息
	if uc.preview != nil {
		if u := linkpreview.FirstURL(p.Content); u != "" {
			pctx, cancel := context.WithTimeout(ctx, uc.previewTimeout)
			pv, err := uc.preview.Fetch(pctx, u)
			cancel()
			if err != nil {
				logger.Log.Debug("link preview skipped", zap.String("url", u), zap.Error(err))
			} else {
				msg.LinkPreview = pv
			}
		}
	}

	if p.DisappearingAfter > 0 {
		msg.DisappearingAfter = p.DisappearingAfter
		msg.ExpiresAt = now.Add(time.Duration(p.DisappearingAfter) * time.Hour).Unix()
	}

	if err := uc.msgRepo.Insert(ctx, msg); err != nil {
		return nil, err
	}

	if msg.ExpiresAt > 0 {
		if err := uc.expiry.Arm(ctx, msg.ID, time.Unix(msg.ExpiresAt, 0)); err != nil {
			// 掛不上到期索引的訊息永遠不會過期：在 fanout 前失敗，回報發起端
			logger.Log.Error("arm expiry failed", zap.String("message", msg.ID), zap.Error(err))
			return nil, err
		}
	}

	event := domain.Event{
		Event:   domain.EventMessageNew,
		Payload: map[string]interface{}{"message": msg},
	}
	if err := uc.hub.Publish(msg.ChannelID(), event); err != nil {
		logger.Log.Error("publish message:new failed", zap.String("message", msg.ID), zap.Error(err))
	}

	if uc.mentions != nil {
		uc.mentions.Notify(ctx, msg, roomName)
	}

	return msg, nil
}

// Edit sender-only body update, rejected on terminal state
func (uc *MessageUseCase) Edit(ctx context.Context, messageID, actorID, newBody string) (*domain.Message, error) {
	if strings.TrimSpace(newBody) == "" {
		return nil, domain.ErrValidation
	}

	unlock := uc.locks.Lock(messageID)
	defer unlock()

	msg, err := uc.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, domain.ErrNotFound
	}
	if msg.SenderID != actorID {
		return nil, domain.ErrUnauthorized
	}
	if msg.IsTerminal() {
		return nil, domain.ErrInvalidState
	}

	msg.Content = newBody
	msg.EditedAt = time.Now().Unix()
	if err := uc.msgRepo.Update(ctx, msg); err != nil {
		return nil, err
	}

	uc.publish(msg.ChannelID(), domain.EventMessageEdited, map[string]interface{}{"message": msg})
	return msg, nil
}

// Delete tombstone the message; sender or room admin/creator, DM sender-only
func (uc *MessageUseCase) Delete(ctx context.Context, messageID, actorID string) error {
	unlock := uc.locks.Lock(messageID)
	defer unlock()

	msg, err := uc.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return domain.ErrNotFound
	}
	if msg.IsTerminal() {
		return domain.ErrInvalidState
	}

	if msg.SenderID != actorID {
		if msg.RoomID == "" {
			return domain.ErrUnauthorized
		}
		room, err := uc.roomRepo.FindByID(ctx, msg.RoomID)
		if err != nil {
			return err
		}
		if room == nil || !room.IsAdmin(actorID) {
			return domain.ErrUnauthorized
		}
	}

	msg.State = domain.StateDeleted
	msg.DeletedAt = time.Now().Unix()
	msg.Content = domain.TombstoneText
	if err := uc.msgRepo.Update(ctx, msg); err != nil {
		return err
	}

	// payload 只帶 id，tombstone 由 client 端套用
	uc.publish(msg.ChannelID(), domain.EventMessageDeleted, map[string]interface{}{"message_id": msg.ID})
	return nil
}

// React toggle actor's membership on emoji, fan out the full reaction map
func (uc *MessageUseCase) React(ctx context.Context, messageID, actorID, emoji string) (*domain.Message, error) {
	if emoji == "" {
		return nil, domain.ErrValidation
	}

	unlock := uc.locks.Lock(messageID)
	defer unlock()

	msg, err := uc.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, domain.ErrNotFound
	}
	if msg.IsTerminal() {
		return nil, domain.ErrInvalidState
	}

	msg.ToggleReaction(actorID, emoji)
	if err := uc.msgRepo.Update(ctx, msg); err != nil {
		return nil, err
	}

	uc.publish(msg.ChannelID(), domain.EventMessageReacted, map[string]interface{}{
		"message_id": msg.ID,
		"reactions":  msg.Reactions,
	})
	return msg, nil
}

// MarkRead idempotent read receipt
func (uc *MessageUseCase) MarkRead(ctx context.Context, messageID, actorID string) error {
	unlock := uc.locks.Lock(messageID)
	defer unlock()

	msg, err := uc.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return domain.ErrNotFound
	}
	if msg.HasRead(actorID) {
		return nil
	}

	at := time.Now().Unix()
	msg.ReadBy = append(msg.ReadBy, domain.ReadReceipt{UserID: actorID, At: at})
	if err := uc.msgRepo.Update(ctx, msg); err != nil {
		return err
	}

	uc.publish(msg.ChannelID(), domain.EventMessageRead, map[string]interface{}{
		"message_id": msg.ID,
		"user_id":    actorID,
		"at":         at,
	})
	return nil
}

// Pin room admin/creator only, keep room pinned list in sync
func (uc *MessageUseCase) Pin(ctx context.Context, messageID, actorID string) error {
	return uc.setPin(ctx, messageID, actorID, true)
}

// Unpin room admin/creator only
func (uc *MessageUseCase) Unpin(ctx context.Context, messageID, actorID string) error {
	return uc.setPin(ctx, messageID, actorID, false)
}

func (uc *MessageUseCase) setPin(ctx context.Context, messageID, actorID string, pin bool) error {
	unlock := uc.locks.Lock(messageID)
	defer unlock()

	msg, err := uc.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return domain.ErrNotFound
	}
	// pin 只適用於 room 訊息
	if msg.RoomID == "" {
		return domain.ErrValidation
	}
	if msg.IsTerminal() {
		return domain.ErrInvalidState
	}

	room, err := uc.roomRepo.FindByID(ctx, msg.RoomID)
	if err != nil {
		return err
	}
	if room == nil {
		return domain.ErrNotFound
	}
	if !room.IsAdmin(actorID) {
		return domain.ErrUnauthorized
	}

	if pin == msg.IsPinned() {
		return nil
	}

	eventName := domain.EventMessagePinned
	if pin {
		msg.PinnedBy = actorID
		msg.PinnedAt = time.Now().Unix()
		if err := uc.roomRepo.AddPinned(ctx, room.ID, msg.ID); err != nil {
			return err
		}
	} else {
		eventName = domain.EventMessageUnpinned
		msg.PinnedBy = ""
		msg.PinnedAt = 0
		if err := uc.roomRepo.RemovePinned(ctx, room.ID, msg.ID); err != nil {
			return err
		}
	}

	if err := uc.msgRepo.Update(ctx, msg); err != nil {
		return err
	}

	uc.publish(msg.ChannelID(), eventName, map[string]interface{}{
		"message_id": msg.ID,
		"actor_id":   actorID,
	})
	return nil
}

// EnsurePrivateChat return the chat of the pair, create when absent
func (uc *MessageUseCase) EnsurePrivateChat(ctx context.Context, userA, userB string) (*domain.PrivateChat, error) {
	if userA == "" || userB == "" || userA == userB {
		return nil, domain.ErrValidation
	}

	chat, err := uc.chatRepo.FindByPair(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	if chat != nil {
		return chat, nil
	}

	chat = &domain.PrivateChat{
		ID:           uuid.New().String(),
		Participants: []string{userA, userB},
		CreatedAt:    time.Now().Unix(),
	}
	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		// 併發建立撞唯一索引時改查既有那筆
		if existing, ferr := uc.chatRepo.FindByPair(ctx, userA, userB); ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return chat, nil
}

func (uc *MessageUseCase) publish(channelID, event string, payload map[string]interface{}) {
	if err := uc.hub.Publish(channelID, domain.Event{Event: event, Payload: payload}); err != nil {
		logger.Log.Error("publish failed", zap.String("event", event), zap.Error(err))
	}
}
