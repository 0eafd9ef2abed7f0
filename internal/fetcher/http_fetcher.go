package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	_maxImageSize = 10 * 1024 * 1024 // 10 MB
	_maxJSONSize  = 2 * 1024 * 1024
)

// ErrCircuitOpen is returned while the breaker rejects requests
var ErrCircuitOpen = errors.New("remote temporarily unavailable")

// HTTPFetcher handles downloading image data and feeds from HTTP/HTTPS URLs
type HTTPFetcher struct {
	logger *zap.Logger
	client *http.Client
	cb     *gobreaker.CircuitBreaker[[]byte]
}

// NewHTTPFetcher creates a new HTTP-based fetcher instance
func NewHTTPFetcher(logger *zap.Logger) *HTTPFetcher {
	logger = logger.Named("fetcher")
	return &HTTPFetcher{
		logger: logger,
		client: &http.Client{
			Timeout: 30 * time.Second, // UHD wallpapers are several MB
		},
		cb: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "artwork-http",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				// Caller cancellations say nothing about the remote
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
	}
}

// Fetch downloads image data from the given URL
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.execute(ctx, url, "image/", _maxImageSize)
}

// FetchJSON downloads a JSON document from the given URL
func (f *HTTPFetcher) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	return f.execute(ctx, url, "", _maxJSONSize)
}

func (f *HTTPFetcher) execute(ctx context.Context, url, wantType string, limit int64) ([]byte, error) {
	data, err := f.cb.Execute(func() ([]byte, error) {
		return f.get(ctx, url, wantType, limit)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, url)
	}
	return data, err
}

func (f *HTTPFetcher) get(ctx context.Context, url, wantType string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "framed/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if wantType != "" && !strings.HasPrefix(resp.Header.Get("Content-Type"), wantType) {
		return nil, fmt.Errorf("url is not an image: %s", resp.Header.Get("Content-Type"))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	f.logger.Debug("Fetched", zap.Int("bytes", len(data)), zap.String("url", url))
	return data, nil
}
