package bootstrap

import (
	"context"
	"log"

	"iot-support-be/internal/config"
	"iot-support-be/internal/controller"
	"iot-support-be/internal/pkg/logger"
	"iot-support-be/internal/pkg/mailer"
	"iot-support-be/internal/repository/cache"
	"iot-support-be/internal/repository/implementation"
	"iot-support-be/internal/repository/memory"
	"iot-support-be/internal/repository/unitofwork"
	"iot-support-be/internal/service"
	"iot-support-be/pkg/catalog"
	"iot-support-be/pkg/embedding"
	"iot-support-be/pkg/events"
	"iot-support-be/pkg/feedback"
	"iot-support-be/pkg/llm/factory"
	"iot-support-be/pkg/rag"
	"iot-support-be/pkg/retrieval"

	pkgNats "iot-support-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SupportController controller.ISupportController
	CorpusController  controller.ICorpusController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaEmbeddingProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Groq,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	var eventPublisher service.EventPublisher
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}

	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		// Durable audit trail of every session lifecycle event.
		if err := natsSub.Subscribe("support.>", "support-audit", func(ctx context.Context, event events.Event) error {
			sysLogger.Info("audit", "session event", event.Payload())
			return nil
		}); err != nil {
			log.Printf("[WARN] Failed to subscribe to support events: %v", err)
		}
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
	}

	// 5. Domain components
	productRepo := implementation.NewProductRepository(db)
	expertRepo := implementation.NewExpertRepository(db)
	chunkRepo := implementation.NewDocumentChunkRepository(db)

	catalogCache := cache.NewCatalogCache(rdb, productRepo, sysLogger)
	sessionGuard := memory.NewSessionGuard()

	retriever := retrieval.NewVectorRetriever(
		embeddingProvider,
		chunkRepo,
		retrieval.Config{
			TopK:      cfg.Support.RetrievalTopK,
			Threshold: retrieval.DefaultConfig().Threshold,
		},
		sysLogger,
	)

	engine := rag.NewEngine(
		catalog.NewRouter(),
		retriever,
		llmProvider,
		cfg.Support.GenerationTimeout,
		sysLogger,
	)

	feedbackManager := feedback.NewManager(productRepo, expertRepo, sysLogger)

	// 6. Services
	supportService := service.NewSupportService(
		uowFactory,
		engine,
		feedbackManager,
		catalogCache,
		sessionGuard,
		eventPublisher,
		emailService,
		sysLogger,
		cfg.Support,
	)

	ingestService := service.NewIngestService(cfg.Keys.IngestTopic, pubSub, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		uowFactory,
		embeddingProvider,
		cfg.Support,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		SupportController: controller.NewSupportController(supportService),
		CorpusController:  controller.NewCorpusController(ingestService),

		ConsumerService: consumerService,
	}
}
