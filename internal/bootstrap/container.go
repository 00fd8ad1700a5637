package bootstrap

import (
	"log"

	"querynotes-be/internal/config"
	"querynotes-be/internal/controller"
	"querynotes-be/internal/pkg/logger"
	"querynotes-be/internal/repository/cache"
	"querynotes-be/internal/repository/contract"
	"querynotes-be/internal/repository/memory"
	"querynotes-be/internal/repository/store"
	supabaseStore "querynotes-be/internal/repository/supabase"
	"querynotes-be/internal/repository/unitofwork"
	"querynotes-be/internal/service"
	"querynotes-be/pkg/database"
	"querynotes-be/pkg/events"
	"querynotes-be/pkg/llm"
	"querynotes-be/pkg/llm/factory"
	"querynotes-be/pkg/llm/openai"

	pktNats "querynotes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	QAController      controller.IQAController
	SummaryController controller.ISummaryController
	HealthController  controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.EventLogFilePath)
	c.Logger = sysLogger
	c.closers = append(c.closers,
		func() { _ = auditLogger.Sync() },
		func() { _ = sysLogger.Sync() },
	)

	// 2. Storage
	conversationStore := c.newConversationStore(cfg)
	if cfg.App.RedisURL != "" {
		redisClient, err := cache.NewClient(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Note cache disabled: %v", err)
		} else {
			c.closers = append(c.closers, func() { _ = redisClient.Close() })
			conversationStore = cache.NewNoteCachingStore(conversationStore, redisClient, cfg.App.NoteCacheTTL, sysLogger)
			log.Printf("[INFO] Note cache enabled (ttl %s)", cfg.App.NoteCacheTTL)
		}
	}

	// 3. AI Providers
	primary, fallback, err := llm.ResolveProviders(cfg.Ai.Providers())
	if err != nil {
		log.Fatalf("[FATAL] Failed to resolve AI providers: %v", err)
	}
	if fallback != nil {
		log.Printf("[INFO] AI providers: primary %s (%s), fallback %s (%s)", primary.Name, primary.ModelID, fallback.Name, fallback.ModelID)
	} else {
		log.Printf("[WARN] AI providers: primary %s (%s), no fallback configured", primary.Name, primary.ModelID)
	}
	models := factory.NewSmartProvider(primary, fallback, openai.NewConnector(cfg.Ai.ResponseHeaderTimeout))

	// 4. Event Bus
	publisher := c.newEventBus(cfg, auditLogger)

	// 5. Services
	qaService := service.NewQAService(conversationStore, models, publisher, sysLogger)
	summaryService := service.NewSummaryService(conversationStore, models, publisher, sysLogger)

	// 6. Controllers
	c.QAController = controller.NewQAController(qaService, sysLogger)
	c.SummaryController = controller.NewSummaryController(summaryService)
	c.HealthController = controller.NewHealthController(models)

	return c
}

func (c *Container) newConversationStore(cfg *config.Config) contract.ConversationStore {
	switch cfg.App.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.App.IsProduction())
		if err != nil {
			log.Fatalf("[FATAL] Unable to connect to GORM DB: %v", err)
		}
		c.closers = append(c.closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
		log.Println("[INFO] Using conversation store: POSTGRES")
		return store.NewGormConversationStore(unitofwork.NewRepositoryFactory(db))

	case config.StoreDriverSupabase:
		s, err := supabaseStore.New(supabaseStore.Config{
			URL:    cfg.Supabase.URL,
			APIKey: cfg.Supabase.ServiceRoleKey,
		})
		if err != nil {
			log.Fatalf("[FATAL] Unable to create Supabase client: %v", err)
		}
		log.Println("[INFO] Using conversation store: SUPABASE")
		return s

	case config.StoreDriverMemory:
		log.Println("[WARN] Using conversation store: MEMORY (data is lost on restart)")
		return memory.NewConversationStore()

	default:
		log.Fatalf("[FATAL] Unknown STORE_DRIVER %q", cfg.App.StoreDriver)
		return nil
	}
}

// newEventBus prefers NATS when configured and falls back to the in-process
// bus when the broker cannot be reached.
func (c *Container) newEventBus(cfg *config.Config, auditLogger logger.ILogger) events.Publisher {
	if cfg.App.EventBus == config.EventBusNats {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v (using local event bus)", err)
			return c.newLocalEventBus(auditLogger)
		}
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			natsPub.Close()
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v (using local event bus)", err)
			return c.newLocalEventBus(auditLogger)
		}

		c.closers = append(c.closers, natsSub.Close, natsPub.Close)
		c.ConsumerService = service.NewNatsConsumerService(natsSub, auditLogger)
		log.Printf("[INFO] Using event bus: NATS (%s)", cfg.App.NatsURL)
		return natsPub
	}

	return c.newLocalEventBus(auditLogger)
}

func (c *Container) newLocalEventBus(auditLogger logger.ILogger) events.Publisher {
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	c.closers = append(c.closers, func() { _ = pubSub.Close() })
	c.ConsumerService = service.NewConsumerService(pubSub, service.LocalEventTopic, auditLogger)
	log.Println("[INFO] Using event bus: LOCAL")
	return service.NewPublisherService(service.LocalEventTopic, pubSub)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
