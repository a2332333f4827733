package bootstrap

import (
	"context"
	"log"

	"feature-intake-bot/internal/config"
	"feature-intake-bot/internal/controller"
	"feature-intake-bot/internal/handler"
	"feature-intake-bot/internal/pkg/logger"
	"feature-intake-bot/internal/repository/memory"
	"feature-intake-bot/internal/service"
	"feature-intake-bot/internal/websocket"
	"feature-intake-bot/pkg/chatbot"

	pktNats "feature-intake-bot/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	EventController controller.IEventController

	// Background Services (Exposed for main.go to run)
	DispatcherService service.IDispatcherService

	// WebSockets
	GatewayHandler *handler.GatewayHandler
	WebSocketHub   *websocket.Hub

	// Held for shutdown
	Logger         logger.ILogger
	EventPublisher *pktNats.Publisher
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus (internal dispatch)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// WebSocket Hub (outbound messenger)
	wsLogger := logger.NewIsolatedLogger("logs/gateway.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Domain components
	flowRepo := memory.NewFlowRepository()
	responder := chatbot.NewOllamaResponder(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel, sysLogger)
	requirementPublisher := pktNats.NewRequirementPublisher(natsPub)

	intakeService := service.NewIntakeService(
		flowRepo,
		wsHub,
		responder,
		requirementPublisher,
		natsPub,
		cfg.Intake.RequirementChannelID,
		sysLogger,
	)

	publisherService := service.NewPublisherService(cfg.Intake.InboundTopic, pubSub)
	dispatcherService := service.NewDispatcherService(
		pubSub,
		cfg.Intake.InboundTopic,
		intakeService,
		wsHub,
		cfg.Intake.DispatchBufferSize,
		sysLogger,
	)

	// 5. Controllers & Handlers
	eventController := controller.NewEventController(publisherService, cfg.App.GatewayJWTSecret)
	gatewayHandler := handler.NewGatewayHandler(wsHub, cfg.App.GatewayJWTSecret, wsLogger)

	return &Container{
		EventController:   eventController,
		DispatcherService: dispatcherService,
		GatewayHandler:    gatewayHandler,
		WebSocketHub:      wsHub,
		Logger:            sysLogger,
		EventPublisher:    natsPub,
	}
}
