package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/docqa-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	AnswerModeAuto  = "auto"
	AnswerModeLocal = "local"
	AnswerModeModel = "model"

	OCREngineTesseract = "tesseract"
	OCREngineHTTP      = "http"
	OCREngineNone      = "none"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr      string        `env:"SERVER_ADDR,notEmpty"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Database configuration
	DatabaseURL         string               `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int                  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int                  `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration        `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration        `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration        `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	DBConnectRetry      pkgRetry.RetryConfig `envPrefix:"DB_CONNECT_RETRY_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	AuthCfg AuthConfig `envPrefix:"JWT_"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// AnswerMode is one of auto, local, model
	AnswerMode string `env:"ANSWER_MODE" envDefault:"auto"`

	// External service configurations
	LLMCfg LLMConfig `envPrefix:"LLM_"`
	OCRCfg OCRConfig `envPrefix:"OCR_"`

	DocumentCacheTTL time.Duration `env:"DOCUMENT_CACHE_TTL" envDefault:"5m"`

	RateLimitCfg RateLimitConfig `envPrefix:"RATE_LIMIT_"`

	// ExportFontPath optionally points to a UTF-8 TTF font for PDF exports
	ExportFontPath string `env:"EXPORT_FONT_PATH"`

	// Environment (set from flag, not from env var)
	Environment string
}

type AuthConfig struct {
	Secret   string        `env:"SECRET,notEmpty"`
	TokenTTL time.Duration `env:"TTL" envDefault:"168h"`
}

type LLMConfig struct {
	APIKey  string        `env:"API_KEY"`
	BaseURL string        `env:"BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	Model   string        `env:"MODEL" envDefault:"gemini-2.5-flash"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

type OCRConfig struct {
	HTTPClientConfig
	Engine            string `env:"ENGINE" envDefault:"tesseract"`
	MaxPDFPages       int    `env:"MAX_PDF_PAGES" envDefault:"3"`
	DPI               int    `env:"DPI" envDefault:"150"`
	MaxConcurrent     int    `env:"MAX_CONCURRENT" envDefault:"2"`
	TesseractPath     string `env:"TESSERACT_PATH" envDefault:"tesseract"`
	PdftoppmPath      string `env:"PDFTOPPM_PATH" envDefault:"pdftoppm"`
	RecognizeEndpoint string `env:"RECOGNIZE_ENDPOINT" envDefault:"/recognize"`
}

// HTTPClientConfig configures an outbound connector. RequestTimeout also
// bounds every single OCR call.
type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	Dir           string `env:"DIR" envDefault:"uploads"`
	MaxFileSize   int64  `env:"MAX_FILE_SIZE" envDefault:"15728640"`    // 15 MiB
	MaxFileCount  int    `env:"MAX_FILE_COUNT" envDefault:"20"`         // Max 20 files
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"104857600"` // 100 MiB
}

type RateLimitConfig struct {
	PerMinute int `env:"PER_MINUTE" envDefault:"30"`
	Burst     int `env:"BURST" envDefault:"5"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(cfg.AuthCfg.Secret) < 16 {
		errors = append(errors, "JWT_SECRET must be at least 16 characters")
	}

	switch cfg.AnswerMode {
	case AnswerModeAuto, AnswerModeLocal, AnswerModeModel:
	default:
		errors = append(errors, fmt.Sprintf("ANSWER_MODE must be one of auto, local, model, got %q", cfg.AnswerMode))
	}

	switch cfg.OCRCfg.Engine {
	case OCREngineTesseract, OCREngineNone:
	case OCREngineHTTP:
		if cfg.OCRCfg.Url == "" && !cfg.EnableMocks {
			errors = append(errors, "OCR_SERVICE_URL is required when OCR_ENGINE=http")
		}
	default:
		errors = append(errors, fmt.Sprintf("OCR_ENGINE must be one of tesseract, http, none, got %q", cfg.OCRCfg.Engine))
	}

	if cfg.OCRCfg.MaxPDFPages < 1 || cfg.OCRCfg.MaxPDFPages > 50 {
		errors = append(errors, fmt.Sprintf("OCR_MAX_PDF_PAGES must be between 1 and 50, got %d", cfg.OCRCfg.MaxPDFPages))
	}

	if cfg.OCRCfg.MaxConcurrent < 1 || cfg.OCRCfg.MaxConcurrent > 64 {
		errors = append(errors, fmt.Sprintf("OCR_MAX_CONCURRENT must be between 1 and 64, got %d", cfg.OCRCfg.MaxConcurrent))
	}

	if cfg.OCRCfg.DPI < 50 || cfg.OCRCfg.DPI > 600 {
		errors = append(errors, fmt.Sprintf("OCR_DPI must be between 50 and 600, got %d", cfg.OCRCfg.DPI))
	}

	if cfg.FileUploadCfg.MaxFileCount < 1 || cfg.FileUploadCfg.MaxFileCount > 20 {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_COUNT must be between 1 and 20, got %d", cfg.FileUploadCfg.MaxFileCount))
	}

	if cfg.FileUploadCfg.MaxFileSize < 1 || cfg.FileUploadCfg.MaxFileSize > cfg.FileUploadCfg.MaxUploadSize {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_SIZE must be between 1 and FILE_UPLOAD_MAX_UPLOAD_SIZE(%d), got %d",
			cfg.FileUploadCfg.MaxUploadSize, cfg.FileUploadCfg.MaxFileSize))
	}

	if cfg.LLMCfg.Timeout <= 0 {
		errors = append(errors, fmt.Sprintf("LLM_TIMEOUT must be positive, got %s", cfg.LLMCfg.Timeout))
	}

	if cfg.OCRCfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("OCR_TIMEOUT must be positive, got %s", cfg.OCRCfg.RequestTimeout))
	}

	if cfg.DocumentCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("DOCUMENT_CACHE_TTL must be positive, got %s", cfg.DocumentCacheTTL))
	}

	if cfg.AuthCfg.TokenTTL <= 0 {
		errors = append(errors, fmt.Sprintf("JWT_TTL must be positive, got %s", cfg.AuthCfg.TokenTTL))
	}

	if cfg.RateLimitCfg.PerMinute < 1 || cfg.RateLimitCfg.PerMinute > 600 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_PER_MINUTE must be between 1 and 600, got %d", cfg.RateLimitCfg.PerMinute))
	}

	if cfg.RateLimitCfg.Burst < 1 || cfg.RateLimitCfg.Burst > 100 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_BURST must be between 1 and 100, got %d", cfg.RateLimitCfg.Burst))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
