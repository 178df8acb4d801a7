package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cryptorafts.backend/internal/config"
	"cryptorafts.backend/internal/infrastructure/blockchain"
	"cryptorafts.backend/internal/infrastructure/email"
	"cryptorafts.backend/internal/infrastructure/jobs"
	"cryptorafts.backend/internal/infrastructure/repositories"
	"cryptorafts.backend/internal/interfaces/http/handlers"
	"cryptorafts.backend/internal/interfaces/http/middleware"
	"cryptorafts.backend/internal/usecases"
	"cryptorafts.backend/pkg/jwt"
	"cryptorafts.backend/pkg/logger"
	"cryptorafts.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	emailVerifRepo := repositories.NewEmailVerificationRepository(db)
	orgRepo := repositories.NewOrganizationRepository(db)
	pitchRepo := repositories.NewPitchRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	proofTaskRepo := repositories.NewProofTaskRepository(db)

	// Initialize mailer (disabled when SMTP is not configured)
	mailer, err := email.NewMailer(cfg.SMTP, cfg.App.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}
	if mailer.Enabled() {
		dialCtx, dialCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mailer.HealthCheck(dialCtx); err != nil {
			log.Printf("⚠️ SMTP not reachable: %v (emails will fail)", err)
		}
		dialCancel()
	}

	// Initialize verification code store
	codeStore, err := redis.NewCodeStore(cfg.Security.CodeEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize code store: %w", err)
	}

	// Initialize blockchain registry when configured
	var registry *blockchain.VerificationRegistry
	if cfg.Blockchain.KYBRegistryAddress != "" && cfg.Blockchain.SignerPrivateKey != "" {
		evmClient, err := blockchain.NewEVMClient(cfg.Blockchain.BSCRPC)
		if err != nil {
			return fmt.Errorf("failed to connect to BSC RPC: %w", err)
		}
		registry, err = blockchain.NewVerificationRegistry(
			evmClient,
			cfg.Blockchain.KYBRegistryAddress,
			cfg.Blockchain.SignerPrivateKey,
			cfg.Blockchain.ExplorerURL,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize verification registry: %w", err)
		}
		log.Println("✅ Verification registry configured")
	} else {
		log.Println("⚠️ Verification registry not configured, on-chain proofs disabled")
	}

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, emailVerifRepo, jwtService, mailer, codeStore)
	onboardingUsecase := usecases.NewOnboardingUsecase(userRepo, orgRepo, mailer)
	approvalUsecase := usecases.NewApprovalUsecase(orgRepo, userRepo, proofTaskRepo, mailer)
	orgSyncUsecase := usecases.NewOrgSyncUsecase(userRepo, orgRepo)
	adminUsecase := usecases.NewAdminUsecase(userRepo, orgRepo)
	pitchUsecase := usecases.NewPitchUsecase(pitchRepo, userRepo, mailer)
	chatUsecase := usecases.NewChatUsecase(chatRepo, userRepo)

	var proofRegistry usecases.ProofRegistry
	if registry != nil {
		proofRegistry = registry
	}
	proofUsecase := usecases.NewOnChainProofUsecase(orgRepo, proofTaskRepo, proofRegistry)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingUsecase)
	adminHandler := handlers.NewAdminHandler(adminUsecase, approvalUsecase, orgSyncUsecase)
	verificationHandler := handlers.NewVerificationHandler(proofUsecase)
	pitchHandler := handlers.NewPitchHandler(pitchUsecase)
	chatHandler := handlers.NewChatHandler(chatUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var proofJob *jobs.ProofTaskJob
	if registry != nil {
		proofJob = jobs.NewProofTaskJob(proofTaskRepo, orgRepo, registry)
		go proofJob.Start(ctx)
	}

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:         authHandler,
		onboardingHandler:   onboardingHandler,
		adminHandler:        adminHandler,
		verificationHandler: verificationHandler,
		pitchHandler:        pitchHandler,
		chatHandler:         chatHandler,
		authMiddleware:      authMiddleware,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		if proofJob != nil {
			proofJob.Stop()
		}
		cancel()
	}()

	// Start server
	log.Printf("🚀 CryptoRafts Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
