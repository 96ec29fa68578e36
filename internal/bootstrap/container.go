package bootstrap

import (
	"context"
	"log"

	"disclosure-engine-be/internal/config"
	"disclosure-engine-be/internal/controller"
	appEvents "disclosure-engine-be/internal/events"
	"disclosure-engine-be/internal/handler"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/internal/repository/implementation"
	"disclosure-engine-be/internal/repository/memory"
	"disclosure-engine-be/internal/repository/redisstore"
	"disclosure-engine-be/internal/repository/unitofwork"
	"disclosure-engine-be/internal/service"
	"disclosure-engine-be/internal/websocket"
	"disclosure-engine-be/pkg/disclosure/state"
	pktNats "disclosure-engine-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	QuestionnaireController controller.IQuestionnaireController
	EligibilityController   controller.IEligibilityController
	ReportController        controller.IReportController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	closers []func()
}

// Close releases broker connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	ctx := context.Background()
	var closers []func()

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	// 2. Job queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	closers = append(closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		closers = append(closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		closers = append(closers, natsSub.Close)
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
	redisUp := true
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisUp = false
	}
	closers = append(closers, func() { _ = rdb.Close() })

	// Session state
	var sessions state.Store
	switch {
	case cfg.Questionnaire.SessionStore == "redis" && redisUp:
		sessions = redisstore.NewSessionStore(rdb, cfg.Questionnaire.SessionTTL)
		log.Printf("[INFO] Using session store: REDIS (ttl %s)", cfg.Questionnaire.SessionTTL)
	default:
		if cfg.Questionnaire.SessionStore == "redis" {
			log.Printf("[WARN] Redis unavailable, falling back to in-memory session store")
		}
		sessions = memory.NewSessionRepository(cfg.Questionnaire.SessionTTL)
		log.Printf("[INFO] Using session store: MEMORY")
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	var hubRedis *redis.Client
	if redisUp {
		hubRedis = rdb
	}
	wsHub := websocket.NewHub(hubRedis, wsLogger)
	go wsHub.Run(ctx)

	// Domain events
	var bus appEvents.Bus
	if natsPub != nil {
		bus = natsPub
	}
	eventPublisher := appEvents.NewNatsPublisher(bus, sysLogger)

	// 4. Model-backed engine
	llmProvider, err := NewLLMProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Questionnaire.ReportTopic, pubSub)
	reportService := service.NewReportService(uowFactory, publisherService, eventPublisher, sysLogger)

	engine := NewEngine(cfg, llmProvider, sessions, reportService, sysLogger)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Questionnaire.ReportTopic,
		uowFactory,
		engine.Pipeline,
		eventPublisher,
		wsHub,
		sysLogger,
	)

	questionnaireService := service.NewQuestionnaireService(engine.Controller, engine.Analyzer, uowFactory, sysLogger)
	eligibilityService := service.NewEligibilityService(engine.Assessor, uowFactory, eventPublisher, sysLogger)

	// Notification Domain
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)

	// Start Service (Worker)
	if natsSub != nil {
		if err := notifService.Start(); err != nil {
			log.Printf("[WARN] Notification consumer not started: %v", err)
		}
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		QuestionnaireController: controller.NewQuestionnaireController(questionnaireService, cfg.Questionnaire.MaxUploadBytes),
		EligibilityController:   controller.NewEligibilityController(eligibilityService),
		ReportController:        controller.NewReportController(reportService),

		ConsumerService: consumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		closers: closers,
	}
}
