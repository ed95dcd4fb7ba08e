package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/docqa-backend/internal/answer"
	"github.com/futig/docqa-backend/internal/api"
	authapi "github.com/futig/docqa-backend/internal/api/auth"
	chatapi "github.com/futig/docqa-backend/internal/api/chat"
	documentapi "github.com/futig/docqa-backend/internal/api/document"
	"github.com/futig/docqa-backend/internal/api/middleware"
	"github.com/futig/docqa-backend/internal/config"
	"github.com/futig/docqa-backend/internal/extraction"
	"github.com/futig/docqa-backend/internal/integration/llm"
	"github.com/futig/docqa-backend/internal/pkg/filestore"
	"github.com/futig/docqa-backend/internal/pkg/formatter"
	"github.com/futig/docqa-backend/internal/pkg/validator"
	"github.com/futig/docqa-backend/internal/repository"
	"github.com/futig/docqa-backend/internal/usecase/auth"
	"github.com/futig/docqa-backend/internal/usecase/chat"
	"github.com/futig/docqa-backend/internal/usecase/document"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserPostgres(db)
	chatRepo := repository.NewChatPostgres(db)
	documentRepo := repository.NewDocumentPostgres(db)
	logger.Info("Repositories initialized")

	store, err := filestore.New(cfg.FileUploadCfg.Dir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setup file store: %w", err)
	}

	// Initialize external service clients (with mock support)
	var llmClient answer.LanguageModel
	if cfg.EnableMocks {
		logger.Info("Using mock language model")
		llmClient = llm.NewMockClient(logger)
	} else {
		llmClient = llm.NewClient(cfg.LLMCfg, logger)
	}

	ocrDeps := setupOCR(cfg, logger)

	answerer, err := answer.New(cfg.AnswerMode, llmClient)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setup answerer: %w", err)
	}
	logger.Info("Answer strategy selected",
		zap.String("mode", cfg.AnswerMode),
		zap.String("answerer", answerer.Name()),
	)

	extractor := extraction.NewExtractor(ocrDeps)

	// Initialize validators
	requestValidator := validator.NewValidator(cfg.FileUploadCfg)

	// Initialize use cases
	authUC := auth.NewUsecase(
		userRepo,
		auth.NewTokenManager(cfg.AuthCfg.Secret, cfg.AuthCfg.TokenTTL),
		requestValidator,
	)

	chatUC := chat.NewUsecase(
		chatRepo,
		formatter.NewFactory(cfg.ExportFontPath),
		requestValidator,
	)

	documentUC := document.NewUsecase(
		documentRepo,
		store,
		extractor,
		answerer,
		requestValidator,
		cfg.DocumentCacheTTL,
	)
	logger.Info("Use cases initialized")

	// Setup router
	router := api.SetupRouter(
		api.Handlers{
			Auth:     authapi.NewHandler(authUC),
			Document: documentapi.NewHandler(documentUC, cfg.FileUploadCfg),
			Chat:     chatapi.NewHandler(chatUC),
		},
		api.RouterConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Authenticator:  authUC,
			RateLimiter:    middleware.NewRateLimiter(cfg.RateLimitCfg.PerMinute, cfg.RateLimitCfg.Burst),
		},
		logger,
	)
	logger.Info("HTTP router configured")

	// Uploads with OCR and model calls outlive the usual write timeout
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      4 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:          server,
		db:              db,
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}
