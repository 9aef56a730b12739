// Package export turns the rendered final report into a paginated PDF.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"hexnews/internal/config"
	"hexnews/internal/logger"
)

// ErrElementNotFound is returned when the page has no element for the selector.
var ErrElementNotFound = errors.New("report element not found")

// Rasterizer captures one element of a web page as a PNG image.
type Rasterizer interface {
	Capture(ctx context.Context, url, selector string) ([]byte, error)
}

// Ensure RodRasterizer implements Rasterizer.
var _ Rasterizer = (*RodRasterizer)(nil)

// RodRasterizer drives headless Chromium through the DevTools protocol. It
// connects to ControlURL when set, otherwise it launches a local browser for
// each capture.
type RodRasterizer struct {
	controlURL string
	bin        string
	scale      float64
	width      int
	logger     *logger.Logger
}

// NewRodRasterizer creates a rasterizer from export configuration.
func NewRodRasterizer(cfg config.ExportConfig, log *logger.Logger) *RodRasterizer {
	if log == nil {
		log = logger.Discard()
	}

	scale := cfg.Scale
	if scale <= 0 {
		scale = 2
	}

	return &RodRasterizer{
		controlURL: cfg.ControlURL,
		bin:        cfg.Bin,
		scale:      scale,
		width:      900,
		logger:     log.With("component", "rasterizer"),
	}
}

// Capture loads url and screenshots the first element matching selector.
func (r *RodRasterizer) Capture(ctx context.Context, url, selector string) (img []byte, err error) {
	controlURL := r.controlURL

	if controlURL == "" {
		l := launcher.New().Headless(true)
		if r.bin != "" {
			l = l.Bin(r.bin)
		}
		defer l.Cleanup()
		defer l.Kill()

		controlURL, err = l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	if r.controlURL == "" {
		defer func() { _ = browser.Close() }()
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             r.width,
		Height:            1200,
		DeviceScaleFactor: r.scale,
	}).Call(page); err != nil {
		r.logger.Warn("failed to set viewport", "error", err)
	}

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for load: %w", err)
	}

	has, el, err := page.Has(selector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}

	if !has {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}

	img, err = el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("screenshot %s: %w", selector, err)
	}

	r.logger.Debug("captured report", "url", url, "bytes", len(img))

	return img, nil
}
