package app

import (
	"context"
	"encoding/json"
	"time"

	"social_chat_service/internal/gateway/domain"
	"social_chat_service/internal/gateway/repository"
	"social_chat_service/pkg/logger"
	"social_chat_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GatewayHandler 是 WebSocket 連線的進入點，薄轉接層：
// transport event -> use case 呼叫 -> outbound event
type GatewayHandler struct {
	presence *PresenceRegistry
	hub      *ChannelHub
	messages *MessageUseCase
	relay    *SignalRelay

	roomRepo repository.RoomRepository
	chatRepo repository.PrivateChatRepository

	queueSize int
}

// NewGatewayHandler create GatewayHandler
func NewGatewayHandler(
	presence *PresenceRegistry,
	hub *ChannelHub,
	messages *MessageUseCase,
	relay *SignalRelay,
	roomRepo repository.RoomRepository,
	chatRepo repository.PrivateChatRepository,
	queueSize int,
) *GatewayHandler {
	return &GatewayHandler{
		presence:  presence,
		hub:       hub,
		messages:  messages,
		relay:     relay,
		roomRepo:  roomRepo,
		chatRepo:  chatRepo,
		queueSize: queueSize,
	}
}

// HandleConnection handle one authenticated websocket connection until it closes
func (h *GatewayHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	userID, _ := conn.Locals(middlewares.TokenUserID).(string)
	username, _ := conn.Locals(middlewares.TokenUsername).(string)
	if userID == "" {
		// middleware 應已擋下，防禦性收尾
		_ = conn.Close()
		return
	}

	client := NewClient(uuid.New().String(), userID, username, conn, h.queueSize)
	go client.Run()

	logger.Log.Info("websocket connected",
		zap.String("user", userID), zap.String("conn", client.ID))

	// last-connection-wins：舊連線讓位
	if prev := h.presence.Register(userID, client); prev != nil {
		h.hub.LeaveAll(prev)
		prev.Close()
	}

	defer func() {
		h.hub.LeaveAll(client)
		h.presence.Unregister(userID, client.ID)
		client.Close()
		// 重連接手時不廣播離線
		if !h.presence.IsOnline(userID) {
			h.presence.BroadcastPresence(userID, username, domain.StatusOffline)
		}
		logger.Log.Info("websocket closed",
			zap.String("user", userID), zap.String("conn", client.ID))
	}()

	// 先補齊持久成員身份的訂閱，再進 read loop
	h.autoSubscribe(ctx, client)
	h.presence.BroadcastPresence(userID, username, domain.StatusOnline)

	// 定期 ping 維持連線
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(time.Second)); err != nil {
					return
				}
			case <-client.done:
				return
			}
		}
	}()

	for {
		mt, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Debug("connection closed", zap.String("conn", client.ID))
			} else {
				logger.Log.Errorf("websocket read error:", err, zap.String("conn", client.ID))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		h.execAction(ctx, client, raw)
	}
}

// execAction dispatch one inbound request；錯誤只回發起端，不中斷連線
func (h *GatewayHandler) execAction(ctx context.Context, client *Client, raw []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(client, domain.EventError, domain.ErrValidation)
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}

	var err error
	switch domain.Action(req.Action) {
	case domain.ActionRoomJoin:
		err = h.joinRoom(ctx, client, req.RoomID)
		resp.Payload["room_id"] = req.RoomID

	case domain.ActionRoomLeave:
		if req.RoomID == "" {
			err = domain.ErrValidation
			break
		}
		h.hub.Leave(client, domain.RoomChannel(req.RoomID))
		resp.Payload["room_id"] = req.RoomID

	case domain.ActionTypingStart, domain.ActionTypingStop, domain.ActionPollUpdate:
		err = h.signal(client, req)

	case domain.ActionMessageRoom:
		var msg *domain.Message
		msg, err = h.messages.Create(ctx, createParams(req, client))
		if err == nil {
			resp.Payload["message"] = msg
		}

	case domain.ActionMessagePrivate:
		err = h.privateMessage(ctx, client, req, &resp)

	case domain.ActionMessageEdit:
		var msg *domain.Message
		msg, err = h.messages.Edit(ctx, req.MessageID, client.UserID, req.Content)
		if err == nil {
			resp.Payload["message"] = msg
		}

	case domain.ActionMessageDelete:
		err = h.messages.Delete(ctx, req.MessageID, client.UserID)
		resp.Payload["message_id"] = req.MessageID

	case domain.ActionMessageReact:
		var msg *domain.Message
		msg, err = h.messages.React(ctx, req.MessageID, client.UserID, req.Emoji)
		if err == nil {
			resp.Payload["reactions"] = msg.Reactions
		}

	case domain.ActionMessageRead:
		err = h.messages.MarkRead(ctx, req.MessageID, client.UserID)
		resp.Payload["message_id"] = req.MessageID

	case domain.ActionMessagePin:
		err = h.messages.Pin(ctx, req.MessageID, client.UserID)
		resp.Payload["message_id"] = req.MessageID

	case domain.ActionMessageUnpin:
		err = h.messages.Unpin(ctx, req.MessageID, client.UserID)
		resp.Payload["message_id"] = req.MessageID

	default:
		err = domain.ErrValidation
	}

	if err != nil {
		logger.Log.Warn("websocket action failed",
			zap.String("user", client.UserID), zap.String("action", req.Action), zap.Error(err))
		h.sendError(client, req.Action, err)
		return
	}

	resp.Success = true
	client.Send(resp)
}

// joinRoom 訂閱 room channel，僅限持久成員
func (h *GatewayHandler) joinRoom(ctx context.Context, client *Client, roomID string) error {
	if roomID == "" {
		return domain.ErrValidation
	}
	room, err := h.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return domain.ErrNotFound
	}
	if !room.IsMember(client.UserID) {
		return domain.ErrUnauthorized
	}
	return h.hub.Join(client, domain.RoomChannel(roomID))
}

// signal relay ephemeral kinds to the channel, origin excluded
func (h *GatewayHandler) signal(client *Client, req domain.WSRequest) error {
	var channelID string
	switch {
	case req.RoomID != "":
		channelID = domain.RoomChannel(req.RoomID)
	case req.ChatID != "":
		channelID = domain.ChatChannel(req.ChatID)
	}

	payload := req.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["user_id"] = client.UserID
	payload["username"] = client.Username
	if req.RoomID != "" {
		payload["room_id"] = req.RoomID
	}
	if req.ChatID != "" {
		payload["chat_id"] = req.ChatID
	}

	return h.relay.Signal(channelID, req.Action, client.ID, payload)
}

// privateMessage resolve the pair chat, create message,
// 並額外直送收件者的個人 channel
func (h *GatewayHandler) privateMessage(ctx context.Context, client *Client, req domain.WSRequest, resp *domain.WSResponse) error {
	var (
		chat *domain.PrivateChat
		err  error
	)
	if req.ChatID != "" {
		chat, err = h.chatRepo.FindByID(ctx, req.ChatID)
		if err != nil {
			return err
		}
		if chat == nil {
			return domain.ErrNotFound
		}
		if !chat.HasParticipant(client.UserID) {
			return domain.ErrUnauthorized
		}
	} else {
		chat, err = h.messages.EnsurePrivateChat(ctx, client.UserID, req.RecipientID)
		if err != nil {
			return err
		}
	}

	// 新 chat 時 sender 立即訂閱
	if err := h.hub.Join(client, domain.ChatChannel(chat.ID)); err != nil {
		logger.Log.Error("chat subscribe failed", zap.String("chat", chat.ID), zap.Error(err))
	}

	req.ChatID = chat.ID
	req.RoomID = ""
	msg, err := h.messages.Create(ctx, createParams(req, client))
	if err != nil {
		return err
	}

	// 直送收件者個人 channel，新建 chat 的對方未訂閱也收得到
	peer := chat.Peer(client.UserID)
	if peer != "" {
		event := domain.Event{
			Event:   domain.EventMessageNew,
			Payload: map[string]interface{}{"message": msg},
		}
		if err := h.hub.Publish(domain.UserChannel(peer), event); err != nil {
			logger.Log.Error("direct delivery failed", zap.String("peer", peer), zap.Error(err))
		}
	}

	resp.Payload["message"] = msg
	resp.Payload["chat_id"] = chat.ID
	return nil
}

// autoSubscribe 連線建立時補上個人 channel 與所有持久成員身份的訂閱
func (h *GatewayHandler) autoSubscribe(ctx context.Context, client *Client) {
	if err := h.hub.Join(client, domain.UserChannel(client.UserID)); err != nil {
		logger.Log.Error("personal channel subscribe failed", zap.String("user", client.UserID), zap.Error(err))
	}

	rooms, err := h.roomRepo.FindByMember(ctx, client.UserID)
	if err != nil {
		logger.Log.Error("load room memberships failed", zap.String("user", client.UserID), zap.Error(err))
	}
	for _, room := range rooms {
		if err := h.hub.Join(client, domain.RoomChannel(room.ID)); err != nil {
			logger.Log.Error("room subscribe failed", zap.String("room", room.ID), zap.Error(err))
		}
	}

	chats, err := h.chatRepo.FindByParticipant(ctx, client.UserID)
	if err != nil {
		logger.Log.Error("load chat memberships failed", zap.String("user", client.UserID), zap.Error(err))
	}
	for _, chat := range chats {
		if err := h.hub.Join(client, domain.ChatChannel(chat.ID)); err != nil {
			logger.Log.Error("chat subscribe failed", zap.String("chat", chat.ID), zap.Error(err))
		}
	}
}

func createParams(req domain.WSRequest, client *Client) CreateMessageParams {
	return CreateMessageParams{
		SenderID:          client.UserID,
		SenderName:        client.Username,
		RoomID:            req.RoomID,
		ChatID:            req.ChatID,
		Content:           req.Content,
		Kind:              domain.MessageKind(req.MessageType),
		Attachments:       req.Attachments,
		ReplyTo:           req.ReplyTo,
		DisappearingAfter: req.DisappearingAfter,
	}
}

func (h *GatewayHandler) sendError(client *Client, action string, err error) {
	client.Send(domain.WSResponse{
		Action:  action,
		Success: false,
		Error:   err.Error(),
		Kind:    domain.ErrorKind(err),
	})
}
