package builder

import (
	"github.com/futig/docqa-backend/internal/config"
	"github.com/futig/docqa-backend/internal/extraction"
	"github.com/futig/docqa-backend/internal/integration/ocr"
	"go.uber.org/zap"
)

// setupOCR selects the OCR engine and PDF rasterizer and routes both
// through one process-wide limiter
func setupOCR(cfg *config.Config, logger *zap.Logger) extraction.Deps {
	deps := extraction.Deps{MaxOCRPages: cfg.OCRCfg.MaxPDFPages}

	var (
		engine     ocr.Engine
		rasterizer ocr.Rasterizer
	)

	switch {
	case cfg.EnableMocks:
		logger.Info("Using mock OCR")
		engine = ocr.NewMockEngine(logger)
		rasterizer = ocr.NewMockRasterizer(logger)
	case cfg.OCRCfg.Engine == config.OCREngineTesseract:
		engine = ocr.NewTesseract(cfg.OCRCfg.TesseractPath)
		rasterizer = ocr.NewPdftoppm(cfg.OCRCfg.PdftoppmPath, cfg.OCRCfg.DPI)
	case cfg.OCRCfg.Engine == config.OCREngineHTTP:
		engine = ocr.NewConnector(cfg.OCRCfg, logger)
		rasterizer = ocr.NewPdftoppm(cfg.OCRCfg.PdftoppmPath, cfg.OCRCfg.DPI)
	default:
		logger.Warn("OCR disabled, scanned PDFs and images will have no text")
		return deps
	}

	limiter := ocr.NewLimiter(cfg.OCRCfg.MaxConcurrent, cfg.OCRCfg.RequestTimeout)
	deps.OCR = limiter.Engine(engine)
	deps.Rasterizer = limiter.Rasterizer(rasterizer)

	logger.Info("OCR configured",
		zap.String("engine", cfg.OCRCfg.Engine),
		zap.Int("max_concurrent", cfg.OCRCfg.MaxConcurrent),
		zap.Int("max_pdf_pages", cfg.OCRCfg.MaxPDFPages),
	)

	return deps
}
