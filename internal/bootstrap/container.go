package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"healthmesh-be/internal/config"
	"healthmesh-be/internal/controller"
	"healthmesh-be/internal/handler"
	"healthmesh-be/internal/pkg/logger"
	"healthmesh-be/internal/pkg/mailer"
	"healthmesh-be/internal/repository/implementation"
	"healthmesh-be/internal/repository/memory"
	"healthmesh-be/internal/repository/unitofwork"
	"healthmesh-be/internal/service"
	"healthmesh-be/internal/websocket"
	"healthmesh-be/pkg/clinical/pipeline"
	"healthmesh-be/pkg/embedding"
	"healthmesh-be/pkg/llm/factory"
	"healthmesh-be/pkg/monitoring"
	pktNats "healthmesh-be/pkg/nats"
	"healthmesh-be/pkg/retrieval"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PatientController   controller.IPatientController
	AnalysisController  controller.IAnalysisController
	GuidelineController controller.IGuidelineController

	// Background services (exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService service.INotificationService

	// WebSockets
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Services main.go or seeders may reach for directly
	GuidelineService service.IGuidelineService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Event bus
	pubSub := monitoring.NewPubSub()

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Pipeline
	pipelineLogger := log.New(os.Stdout, "", log.LstdFlags)
	monitor := monitoring.NewBusMonitor(pubSub, pipelineLogger)

	chunkSearcher := implementation.NewGuidelineChunkSearcher(implementation.NewGuidelineEmbeddingRepository(db))
	retriever := retrieval.NewOrchestrator(embeddingProvider, chunkSearcher, pipelineLogger)

	runner := pipeline.NewRunner(llmProvider, retriever, monitor, pipelineLogger, pipeline.ExecutorConfig{
		StageTimeout:   time.Duration(cfg.Pipeline.StageTimeoutSec) * time.Second,
		MaxRetries:     cfg.Pipeline.MaxRetries,
		RetryBaseDelay: 500 * time.Millisecond,
	})

	runRepo := memory.NewRunRepository()

	// 6. Services
	patientService := service.NewPatientService(uowFactory)
	analysisService := service.NewAnalysisService(uowFactory, runner, runRepo, natsPub, sysLogger)
	guidelineService := service.NewGuidelineService(uowFactory, embeddingProvider, sysLogger)
	consumerService := service.NewConsumerService(pubSub, natsPub)

	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(
		notifRepo,
		natsSub,
		wsHub,
		emailService,
		cfg.SMTP.EscalationEmail,
		wsLogger,
	)

	// 7. Controllers & handlers
	return &Container{
		PatientController:   controller.NewPatientController(patientService),
		AnalysisController:  controller.NewAnalysisController(analysisService),
		GuidelineController: controller.NewGuidelineController(guidelineService),
		ConsumerService:     consumerService,
		NotificationService: notifService,
		NotificationHandler: handler.NewNotificationHandler(notifService, wsHub, cfg.Keys.JwtSecret, wsLogger),
		WebSocketHub:        wsHub,
		GuidelineService:    guidelineService,
	}
}
