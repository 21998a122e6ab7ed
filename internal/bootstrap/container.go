package bootstrap

import (
	"context"
	"log"

	"chat-moderation-be/internal/config"
	"chat-moderation-be/internal/controller"
	"chat-moderation-be/internal/dispatcher"
	"chat-moderation-be/internal/handler"
	"chat-moderation-be/internal/pkg/logger"
	"chat-moderation-be/internal/pkg/mailer"
	"chat-moderation-be/internal/repository/contract"
	"chat-moderation-be/internal/repository/implementation"
	"chat-moderation-be/internal/service"
	"chat-moderation-be/internal/session"
	"chat-moderation-be/internal/websocket"
	"chat-moderation-be/pkg/oracle"
	"chat-moderation-be/pkg/store"
	"chat-moderation-be/pkg/store/memstore"
	"chat-moderation-be/pkg/store/redisstore"
	"chat-moderation-be/pkg/transport"
	"chat-moderation-be/pkg/transport/rest"

	pktNats "chat-moderation-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController
	AdminController   controller.IAdminController

	// Background Services (Exposed for main.go to run)
	IngestService service.IIngestService

	// WebSockets & Alerts
	AlertHandler *handler.AlertHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
		cfg.SMTP.AlertRecipients,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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

	// Document store: redis when reachable, in-process otherwise.
	var docStore store.DocumentStore
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory store", err)
		docStore = memstore.New()
	} else {
		docStore = redisstore.New(rdb)
	}

	// Case archive is optional; without a database cases are only streamed.
	var caseRepo contract.ModerationCaseRepository
	if db != nil {
		caseRepo = implementation.NewModerationCaseRepository(db)
	} else {
		log.Printf("[WARN] No database configured, case archive disabled")
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/alerts.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Chat Gateway
	chat := rest.NewClient(cfg.Bot.GatewayURL, cfg.Keys.BotToken, transport.User{
		ID:   cfg.Bot.UserID,
		Name: cfg.Bot.DisplayName,
	})

	groupChannelID := mustResolveChannel(chat, cfg.Bot.GuildID, cfg.GroupChannel())
	modChannelID := mustResolveChannel(chat, cfg.Bot.GuildID, cfg.ModChannel())
	committeeChannelID := mustResolveChannel(chat, cfg.Bot.GuildID, cfg.CommitteeChannel())

	// 4. Services
	keywordService := service.NewKeywordService(docStore)
	flagService := service.NewFlagService(docStore)

	var audit service.AuditPublisher
	if natsPub != nil {
		audit = natsPub
	}

	alertService := service.NewAlertService(
		chat,
		modChannelID,
		committeeChannelID,
		wsHub,
		audit,
		emailService,
		caseRepo,
		sysLogger,
	)

	detectionService := service.NewDetectionService(
		keywordService,
		oracle.NewPerspectiveScorer(cfg.Keys.Perspective),
		oracle.NewChatClassifier(cfg.Keys.Classifier),
		alertService,
		sysLogger,
	)

	eventRouter := dispatcher.NewDispatcher(
		chat,
		detectionService,
		alertService,
		keywordService,
		flagService,
		audit,
		session.DefaultReportPolicy(),
		groupChannelID,
		modChannelID,
		committeeChannelID,
		sysLogger,
	)

	publisherService := service.NewPublisherService(cfg.App.ChatEventTopic, pubSub)
	ingestService := service.NewIngestService(pubSub, cfg.App.ChatEventTopic, eventRouter)

	// 5. Controllers
	return &Container{
		WebhookController: controller.NewWebhookController(publisherService),
		AdminController:   controller.NewAdminController(keywordService, caseRepo, sysLogger),
		AlertHandler:      handler.NewAlertHandler(wsHub, wsLogger),
		WebSocketHub:      wsHub,
		IngestService:     ingestService,
	}
}

func mustResolveChannel(chat transport.Chat, guildID, name string) string {
	id, err := chat.ResolveChannel(context.Background(), guildID, name)
	if err != nil {
		log.Fatalf("[FATAL] Failed to resolve channel %q: %v", name, err)
	}
	return id
}
