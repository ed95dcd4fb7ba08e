package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const pagePrefix = "page"

// Pdftoppm renders PDF pages to PNG with poppler's pdftoppm
type Pdftoppm struct {
	path   string
	dpi    int
	runner CommandRunner
}

func NewPdftoppm(path string, dpi int) *Pdftoppm {
	return NewPdftoppmWithRunner(path, dpi, ExecRunner{})
}

func NewPdftoppmWithRunner(path string, dpi int, runner CommandRunner) *Pdftoppm {
	if path == "" {
		path = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &Pdftoppm{path: path, dpi: dpi, runner: runner}
}

// Rasterize returns PNG images of pages 1..maxPages in page order
func (p *Pdftoppm) Rasterize(ctx context.Context, pdf []byte, maxPages int) ([][]byte, error) {
	if maxPages <= 0 {
		return nil, nil
	}

	dir, err := os.MkdirTemp("", "docqa-raster-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	_, err = p.runner.Run(ctx, p.path,
		"-f", "1",
		"-l", strconv.Itoa(maxPages),
		"-png",
		"-r", strconv.Itoa(p.dpi),
		input,
		filepath.Join(dir, pagePrefix),
	)
	if err != nil {
		return nil, fmt.Errorf("run pdftoppm: %w", err)
	}

	return readPages(dir, maxPages)
}

type renderedPage struct {
	number int
	path   string
}

// readPages collects page-N.png files; pdftoppm zero-pads N by page count
func readPages(dir string, maxPages int) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list rendered pages: %w", err)
	}

	var pages []renderedPage
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, pagePrefix+"-") || !strings.HasSuffix(name, ".png") {
			continue
		}
		num, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, pagePrefix+"-"), ".png"))
		if err != nil {
			continue
		}
		pages = append(pages, renderedPage{number: num, path: filepath.Join(dir, name)})
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].number < pages[j].number })
	if len(pages) > maxPages {
		pages = pages[:maxPages]
	}

	images := make([][]byte, 0, len(pages))
	for _, page := range pages {
		data, err := os.ReadFile(page.path)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", page.number, err)
		}
		images = append(images, data)
	}

	return images, nil
}
