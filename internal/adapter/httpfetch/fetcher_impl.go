package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/novelpack/pkg/metrics"
)

// Fetcher performs plain GET requests with a fixed identity. There are no retries.
type Fetcher struct {
	client   *http.Client
	identity *Identity
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewFetcher creates a new page fetcher.
func NewFetcher(identity *Identity, m *metrics.Metrics, l *zap.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Transport: identity.Transport()},
		identity: identity,
		metrics:  m,
		logger:   l,
	}
}

// Fetch GETs url and returns the body. Non-2xx responses are errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.identity.UserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	f.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("get %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}
	f.logger.Debug("fetched page", zap.String("url", url), zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)))
	return string(body), nil
}
