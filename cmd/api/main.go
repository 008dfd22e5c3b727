package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/blocksmith-ai/backend/internal/config"
	"github.com/blocksmith-ai/backend/internal/handler"
	"github.com/blocksmith-ai/backend/internal/middleware"
	"github.com/blocksmith-ai/backend/internal/packager"
	"github.com/blocksmith-ai/backend/internal/repository"
	"github.com/blocksmith-ai/backend/internal/service"
	"github.com/blocksmith-ai/backend/internal/worker"
	"github.com/blocksmith-ai/backend/pkg/ai"
	"github.com/blocksmith-ai/backend/pkg/database"
	"github.com/blocksmith-ai/backend/pkg/email"
	jwtPkg "github.com/blocksmith-ai/backend/pkg/jwt"
	"github.com/blocksmith-ai/backend/pkg/logger"
	"github.com/blocksmith-ai/backend/pkg/payment"
	"github.com/blocksmith-ai/backend/pkg/storage"
	"github.com/blocksmith-ai/backend/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("cannot connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("cannot run migrations", zap.Error(err))
	}

	// Repositories
	profileRepo := repository.NewProfileRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	transactionRepo := repository.NewCreditTransactionRepository(db)
	generationRepo := repository.NewGenerationRepository(db)
	packageRepo := repository.NewCreditPackageRepository(db)
	customerRepo := repository.NewStripeCustomerRepository(db)

	// Storage
	r2Storage, err := storage.NewR2Storage(cfg)
	if err != nil {
		log.Fatal("cannot initialize object storage", zap.Error(err))
	}

	// AI clients
	claude := ai.NewAnthropicClient(cfg.AI.AnthropicAPIKey)
	gemini := ai.NewGeminiClient(cfg.AI.GeminiAPIKey)
	replicate := ai.NewReplicateClient(cfg.AI.ReplicateToken)
	router := ai.NewRouter(claude, gemini, log)

	// Packaging
	mavenBuilder := packager.NewMavenBuilder(log)
	artifactPackager := packager.NewPackager(r2Storage, mavenBuilder, log)

	// Email
	emailService := email.NewEmailService(cfg.ResendAPIKey, cfg.EmailFromAddress, log)

	// Services
	ledgerService := service.NewLedgerService(ledgerRepo, log)
	userService := service.NewUserService(profileRepo, generationRepo, transactionRepo)

	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey)
	paymentService := service.NewPaymentService(
		stripeService,
		packageRepo,
		customerRepo,
		ledgerService,
		transactionRepo,
		cfg.PaymentDedup,
		log,
	)

	// Worker pool
	executor := worker.NewExecutor(
		generationRepo,
		profileRepo,
		ledgerService,
		router,
		replicate,
		artifactPackager,
		emailService,
		worker.ExecutorConfig{
			RefundOnFailure:    cfg.RefundOnFailure,
			TextureConcurrency: cfg.Worker.TextureConcurrency,
		},
		log,
	)
	pool := worker.NewPool(cfg.Worker.PoolSize, cfg.Worker.QueueSize, executor, log)

	generationService := service.NewGenerationService(generationRepo, ledgerService, pool, log)

	// Handlers
	validator := utils.NewValidator()
	jwtValidator := jwtPkg.NewValidator(cfg.JWTSecret)

	generationHandler := handler.NewGenerationHandler(generationService, validator)
	creditHandler := handler.NewCreditHandler(paymentService, ledgerService, validator)
	userHandler := handler.NewUserHandler(userService)
	webhookHandler := handler.NewPaymentWebhookHandler(paymentService, cfg.Stripe.WebhookSecret, log)

	// Router
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    "BlockSmith AI API",
			"version": "1.0.0",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public routes
	api.Post("/webhooks/payment", webhookHandler.HandleStripeWebhook)
	api.Get("/credits/packages", creditHandler.GetCreditPackages)
	api.Post("/generations/estimate", generationHandler.Estimate)
	api.Get("/generations/pricing", generationHandler.GetPricing)

	// Protected routes
	api.Use(middleware.AuthMiddleware(jwtValidator, profileRepo, log))

	credits := api.Group("/credits")
	credits.Get("/balance", creditHandler.GetBalance)
	credits.Post("/checkout", creditHandler.CreateCheckoutSession)
	credits.Get("/history", creditHandler.GetPurchaseHistory)

	generations := api.Group("/generations")
	generations.Post("/plugin", generationHandler.SubmitPlugin)
	generations.Post("/datapack", generationHandler.SubmitDatapack)
	generations.Post("/texture-pack", generationHandler.SubmitTexturePack)
	generations.Get("/:id", generationHandler.GetGeneration)

	users := api.Group("/users")
	users.Get("/me", userHandler.GetMe)
	users.Get("/me/generations", userHandler.GetMyGenerations)
	users.Get("/me/transactions", userHandler.GetMyTransactions)

	// Workers run until shutdown; in-flight generations finish before exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool.Start(ctx)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("port", cfg.Port))

	<-ctx.Done()
	log.Info("shutting down")

	if err := app.Shutdown(); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	pool.Stop()
	log.Info("shutdown complete")
}
