package app

import (
	"sync"

	"social_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// Conn 寫出介面，*websocket.Conn 滿足
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client one live websocket connection of a user
type Client struct {
	ID       string
	UserID   string
	Username string

	conn Conn
	out  chan interface{}
	done chan struct{}
	once sync.Once
}

// NewClient create Client with a buffered outbound queue
func NewClient(id, userID, username string, conn Conn, queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Client{
		ID:       id,
		UserID:   userID,
		Username: username,
		conn:     conn,
		out:      make(chan interface{}, queueSize),
		done:     make(chan struct{}),
	}
}

// Run single write pump，連線唯一的寫入者
func (c *Client) Run() {
	for {
		select {
		case v := <-c.out:
			if err := c.conn.WriteJSON(v); err != nil {
				logger.Log.Errorf("write message error:", err, zap.String("conn", c.ID))
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Send enqueue without blocking；關閉後為 no-op，佇列滿時丟棄，慢連線不可拖住發布端
func (c *Client) Send(v interface{}) {
	// done 與入隊同時就緒時 select 隨機挑，先檢查避免關閉後還入隊
	if c.Closed() {
		return
	}
	select {
	case c.out <- v:
	default:
		logger.Log.Warn("client queue full, event dropped",
			zap.String("conn", c.ID), zap.String("user", c.UserID))
	}
}

// Close stop the write pump and close the connection, idempotent
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Closed check client already closed
func (c *Client) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
