package ocr

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

// Engine recognizes text in an image
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Rasterizer renders PDF pages to images
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte, maxPages int) ([][]byte, error)
}

// Limiter bounds process-wide OCR work: at most n calls run at once and
// every call gets its own deadline.
type Limiter struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

func NewLimiter(maxConcurrent int, timeout time.Duration) *Limiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Limiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		timeout: timeout,
	}
}

func (l *Limiter) acquire(ctx context.Context) (context.Context, func(), error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, fmt.Errorf("wait for ocr slot: %w", err)
	}

	cancel := func() {}
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
	}

	return ctx, func() {
		cancel()
		l.sem.Release(1)
	}, nil
}

// Engine wraps e so that its calls go through the limiter
func (l *Limiter) Engine(e Engine) Engine {
	return &limitedEngine{limiter: l, engine: e}
}

// Rasterizer wraps r so that its calls go through the limiter
func (l *Limiter) Rasterizer(r Rasterizer) Rasterizer {
	return &limitedRasterizer{limiter: l, rasterizer: r}
}

type limitedEngine struct {
	limiter *Limiter
	engine  Engine
}

func (e *limitedEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	ctx, release, err := e.limiter.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	return e.engine.Recognize(ctx, image)
}

type limitedRasterizer struct {
	limiter    *Limiter
	rasterizer Rasterizer
}

func (r *limitedRasterizer) Rasterize(ctx context.Context, pdf []byte, maxPages int) ([][]byte, error) {
	ctx, release, err := r.limiter.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return r.rasterizer.Rasterize(ctx, pdf, maxPages)
}
