package api

import (
	"net/http"
	"time"

	authapi "github.com/futig/docqa-backend/internal/api/auth"
	chatapi "github.com/futig/docqa-backend/internal/api/chat"
	"github.com/futig/docqa-backend/internal/api/docs"
	documentapi "github.com/futig/docqa-backend/internal/api/document"
	"github.com/futig/docqa-backend/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestTimeout leaves room for OCR of scanned uploads and model calls
const requestTimeout = 3 * time.Minute

// Handlers groups the HTTP handlers served by the router
type Handlers struct {
	Auth     *authapi.Handler
	Document *documentapi.Handler
	Chat     *chatapi.Handler
}

// RouterConfig holds router-wide middleware settings
type RouterConfig struct {
	AllowedOrigins []string
	Authenticator  middleware.Authenticator
	RateLimiter    *middleware.RateLimiter
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Timeout(requestTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	docs.RegisterRoutes(r)

	requireAuth := middleware.RequireAuth(cfg.Authenticator)

	authapi.RegisterRoutes(r, h.Auth, requireAuth)
	documentapi.RegisterRoutes(r, h.Document, requireAuth, cfg.RateLimiter.Middleware)
	chatapi.RegisterRoutes(r, h.Chat, requireAuth)

	return r
}
