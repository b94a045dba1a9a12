package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/time/rate"

	apperrors "twpulse/internal/errors"
	"twpulse/internal/infrastructure"
)

// userAgent mirrors a desktop browser; the brokerage mirrors reject the Go
// default agent.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Getter is the fetch collaborator the adapters depend on. The core imposes
// no timeout of its own; a hung upstream is bounded by the client configured
// here.
type Getter interface {
	GetJSON(ctx context.Context, url string, out any) error
	GetText(ctx context.Context, url string) (string, error)
}

// Fetcher is a rate-limited HTTP fetch collaborator shared by all adapters.
// The exchange endpoints throttle aggressive clients, so every request waits
// on the limiter first.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	metrics *infrastructure.BusinessMetrics
	source  string
	logger  *slog.Logger
}

// NewFetcher builds a fetcher with the given per-request timeout and request
// rate (requests per second). metrics may be nil; fetch outcomes then go
// unrecorded.
func NewFetcher(timeout time.Duration, rps float64, burst int, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		metrics: metrics,
		source:  "other",
		logger:  logger.With(slog.String("component", "fetcher")),
	}
}

// Named returns a view of the fetcher whose recorded fetches carry source as
// the attribution label. The HTTP client and the rate limiter stay shared, so
// per-source views still honor the global request rate.
func (f *Fetcher) Named(source string) *Fetcher {
	named := *f
	named.source = source
	return &named
}

func (f *Fetcher) get(ctx context.Context, url, accept string) (body []byte, err error) {
	if werr := f.limiter.Wait(ctx); werr != nil {
		return nil, fmt.Errorf("rate limit wait: %w", werr)
	}

	req, rerr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if rerr != nil {
		return nil, fmt.Errorf("build request: %w", rerr)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en;q=0.7")

	start := time.Now()
	defer func() {
		infrastructure.RecordFetchMetrics(ctx, f.metrics, f.source, time.Since(start), err == nil)
	}()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("fetch %s", url), err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("read body %s", url), err)
	}

	f.logger.DebugContext(ctx, "upstream fetch",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewSourceError(
			fmt.Sprintf("fetch %s: unexpected status %d", url, resp.StatusCode), nil).
			WithContext("status", resp.StatusCode)
	}
	return body, nil
}

// GetJSON fetches url and decodes the JSON response into out.
func (f *Fetcher) GetJSON(ctx context.Context, url string, out any) error {
	body, err := f.get(ctx, url, "application/json,text/html;q=0.8,*/*;q=0.5")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		infrastructure.RecordParseFailure(ctx, f.metrics, f.source)
		return apperrors.NewParsingError(fmt.Sprintf("decode json %s", url), err)
	}
	return nil
}

// GetText fetches url and decodes the body to a UTF-8 string. The brokerage
// mirrors commonly serve Big5/CP950; try UTF-8 first, then Big5, and fall
// back to a lossy UTF-8 interpretation rather than failing the fetch.
func (f *Fetcher) GetText(ctx context.Context, url string) (string, error) {
	body, err := f.get(ctx, url, "text/html,application/json;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}
	return decodeText(body), nil
}

func decodeText(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	if decoded, err := traditionalchinese.Big5.NewDecoder().Bytes(body); err == nil {
		return string(decoded)
	}
	return string([]rune(string(body)))
}
