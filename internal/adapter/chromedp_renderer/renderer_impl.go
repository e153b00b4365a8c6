package chromedp_renderer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const renderTimeout = 2 * time.Minute

// Renderer prints HTML documents to PDF with a headless Chrome.
type Renderer struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
	logger      *zap.Logger

	startOnce sync.Once
	startErr  error
}

// NewRenderer starts the browser allocator. chromePath overrides the Chrome binary lookup
// when not empty. The browser itself is launched on the first render.
func NewRenderer(ctx context.Context, chromePath string, l *zap.Logger) *Renderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(l.Sugar().Debugf))
	return &Renderer{
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		browserCtx:  browserCtx,
		cancel:      cancel,
		logger:      l,
	}
}

// start launches the shared browser. Contexts derived from browserCtx afterwards open
// tabs in it instead of new browser processes.
func (r *Renderer) start() error {
	r.startOnce.Do(func() {
		if err := chromedp.Run(r.browserCtx); err != nil {
			r.startErr = fmt.Errorf("failed to start browser: %w", err)
			return
		}
		r.logger.Debug("browser started")
	})
	return r.startErr
}

// RenderPDF loads htmlContent into a fresh tab of the shared browser and prints it
// with backgrounds.
func (r *Renderer) RenderPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	if err := r.start(); err != nil {
		return nil, err
	}
	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, renderTimeout)
	defer cancelTimeout()

	// Stop the tab when the caller is cancelled.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	r.logger.Debug("rendered pdf", zap.Int("bytes", len(pdf)), zap.Duration("took", time.Since(start)))
	return pdf, nil
}

// Close shuts the browser down.
func (r *Renderer) Close() {
	r.cancel()
	r.cancelAlloc()
}
