package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-agent-gateway-be/internal/config"
	"ai-agent-gateway-be/internal/controller"
	"ai-agent-gateway-be/internal/pkg/logger"
	"ai-agent-gateway-be/internal/pkg/mailer"
	"ai-agent-gateway-be/internal/pkg/serverutils"
	"ai-agent-gateway-be/internal/repository/implementation"
	tenantcache "ai-agent-gateway-be/internal/repository/memory"
	"ai-agent-gateway-be/internal/service"
	"ai-agent-gateway-be/pkg/agent"
	"ai-agent-gateway-be/pkg/guardrail"
	"ai-agent-gateway-be/pkg/llm/factory"
	"ai-agent-gateway-be/pkg/memory"
	"ai-agent-gateway-be/pkg/queue"
	"ai-agent-gateway-be/pkg/ratelimit"
	"ai-agent-gateway-be/pkg/tools"
	"ai-agent-gateway-be/pkg/webhook"

	pktNats "ai-agent-gateway-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	MessageController controller.IMessageController
	WebhookController controller.IWebhookController
	TenantController  controller.ITenantController

	// Background workers (exposed for main.go to run and stop)
	DeliveryWorker *webhook.Worker

	// Shared infrastructure main.go must close on shutdown
	Logger     logger.ILogger
	Publisher  queue.Publisher
	Subscriber queue.Subscriber
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// Repositories
	tenantRepo := implementation.NewTenantRepository(db)
	turnRepo := implementation.NewTurnRepository(db)
	webhookRepo := implementation.NewWebhookRepository(db)
	documentRepo := implementation.NewDocumentRepository(db)

	// Redis backs the rate limiter window and session memory. The
	// in-memory drivers exist for single-node and test deployments.
	var rdb *redis.Client
	if cfg.App.StoreDriver == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	var windowStore ratelimit.WindowStore
	var sessionStore memory.SessionStore
	if rdb != nil {
		windowStore = ratelimit.NewRedisStore(rdb)
		sessionStore = memory.NewRedisStore(rdb)
		log.Printf("[INFO] Using store driver: REDIS")
	} else {
		windowStore = ratelimit.NewMemoryStore()
		sessionStore = memory.NewMemoryStore()
		log.Printf("[INFO] Using store driver: MEMORY")
	}

	limiter := ratelimit.NewLimiter(windowStore, sysLogger)

	// Delivery queue: JetStream in production, watermill gochannel for
	// single-node and test deployments.
	var pub queue.Publisher
	var sub queue.Subscriber
	if cfg.App.QueueDriver == "nats" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to NATS Subscriber: %v", err)
		}
		pub, sub = natsPub, natsSub
		log.Printf("[INFO] Using queue driver: NATS JetStream")
	} else {
		q := queue.NewGoChannelQueue()
		pub, sub = q, q
		log.Printf("[INFO] Using queue driver: GOCHANNEL")
	}

	// LLM provider and agent
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.BaseURL,
		cfg.Ai.APIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	registry := tools.NewRegistry()
	registry.Register(tools.NewScheduleVisitTool())
	registry.Register(tools.NewBusinessHoursTool())
	registry.Register(tools.NewSendEmailTool(emailService))
	registry.Register(tools.NewSearchDocumentsTool(documentRepo))
	if cfg.Payment.MidtransServerKey != "" {
		registry.Register(tools.NewPaymentLinkTool(cfg.Payment.MidtransServerKey, cfg.Payment.Production))
	}

	runner := agent.NewRunner(llmProvider, registry, sysLogger)
	summarizer := agent.NewLLMSummarizer(llmProvider)

	mem := memory.NewManager(sessionStore, summarizer, memory.DefaultMaxTurns, memory.DefaultSessionTTL, sysLogger)
	engine := guardrail.NewEngine()

	// Webhook delivery
	dispatcher := webhook.NewDispatcher(webhookRepo, pub, sysLogger)
	workerCfg := webhook.DefaultWorkerConfig()
	workerCfg.MaxAttempts = cfg.Webhook.MaxAttempts
	workerCfg.MaxElapsed = cfg.Webhook.MaxElapsed
	workerCfg.RequestTimeout = cfg.Webhook.Timeout
	workerCfg.Concurrency = cfg.Webhook.Concurrency
	deliveryWorker := webhook.NewWorker(webhookRepo, sub, workerCfg, sysLogger)

	// Services
	tenantService := service.NewTenantService(tenantRepo, tenantcache.NewTenantCache(), sysLogger)
	pipelineService := service.NewPipelineService(limiter, engine, mem, runner, turnRepo, dispatcher, sysLogger)
	sessionService := service.NewSessionService(mem, sysLogger)
	webhookService := service.NewWebhookService(webhookRepo, dispatcher, sysLogger)

	var tenantGuard fiber.Handler = serverutils.TenantMiddleware(tenantService.Resolve)

	return &Container{
		MessageController: controller.NewMessageController(pipelineService, sessionService, tenantGuard),
		WebhookController: controller.NewWebhookController(webhookService, tenantGuard),
		TenantController:  controller.NewTenantController(tenantService),

		DeliveryWorker: deliveryWorker,

		Logger:     sysLogger,
		Publisher:  pub,
		Subscriber: sub,
	}
}

// Flush drains the queue connections and log buffers before shutdown.
func (c *Container) Flush() {
	if c.Subscriber != nil {
		c.Subscriber.Close()
	}
	// With the gochannel driver publisher and subscriber are one object.
	if c.Publisher != nil && any(c.Publisher) != any(c.Subscriber) {
		c.Publisher.Close()
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
	time.Sleep(100 * time.Millisecond)
}
