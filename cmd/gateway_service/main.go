package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social_chat_service/internal/gateway/app"
	"social_chat_service/internal/gateway/repository"
	"social_chat_service/internal/gateway/router"
	"social_chat_service/pkg/config"
	"social_chat_service/pkg/database"
	"social_chat_service/pkg/linkpreview"
	"social_chat_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.GatewayService, config.EnvConfig.GatewayServiceLogPath)
	cfg := config.LoadConfig[config.Gateway](config.EnvConfig.GatewayService, config.EnvConfig.GatewayServiceYAMLPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Mongo 連線 (訊息、room、chat、user)
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", uri)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// 2. Redis 連線 (Pub/Sub fanout + 到期索引)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// 3. Repository
	roomRepo := repository.NewMongoRoomRepository(mongo.Database)
	chatRepo := repository.NewMongoPrivateChatRepository(mongo.Database)
	msgRepo := repository.NewMongoMessageRepository(mongo.Database)
	userRepo := repository.NewMongoUserRepository(mongo.Database)
	expiryRepo := repository.NewRedisExpiryRepository(redisClient)
	pubsub := repository.NewRedisPubSub(redisClient)

	// 4. 核心元件，locks 由 use case 與 scheduler 共用
	hub := app.NewChannelHub(pubsub)
	presence := app.NewPresenceRegistry(userRepo)
	mentions := app.NewMentionNotifier(userRepo, presence, hub)
	preview := linkpreview.NewFetcher(time.Duration(cfg.LinkPreviewTimeoutSeconds) * time.Second)
	locks := app.NewKeyedMutex()

	messageUC := app.NewMessageUseCase(
		roomRepo, chatRepo, msgRepo, expiryRepo,
		hub, mentions, preview, locks,
		time.Duration(cfg.LinkPreviewTimeoutSeconds)*time.Second,
	)
	relay := app.NewSignalRelay(hub)

	scheduler := app.NewExpiryScheduler(expiryRepo, msgRepo, hub, locks,
		time.Duration(cfg.ExpirySweepSeconds)*time.Second)
	go scheduler.Run(ctx)

	gateway := app.NewGatewayHandler(presence, hub, messageUC, relay, roomRepo, chatRepo, cfg.ClientQueueSize)

	// 5. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.GatewayServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, gateway)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("shutting down gateway service")
		cancel()
		_ = r.Shutdown()
	}()

	port := ":" + cfg.Port
	log.Printf("Gateway Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
