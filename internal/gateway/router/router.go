package router

import (
	"context"

	"social_chat_service/internal/gateway/app"
	"social_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes 註冊 gateway 路由
func RegisterRoutes(r *fiber.App, gateway *app.GatewayHandler) {
	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		gateway.HandleConnection(context.Background(), c)
	}))
}
