// Package webfetch retrieves fixture source pages with retry, linear
// backoff, a circuit breaker and a politeness rate limit.
package webfetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout        = 15 * time.Second
	defaultMaxAttempts    = 3
	defaultMaxBodyBytes   = 8 << 20
	defaultUserAgent      = "MarinosFixtures/1.0 (+https://github.com/riskibarqy/marinos-fixtures)"
	defaultAcceptLanguage = "ja,en;q=0.8"
)

// ErrFetchFailed is returned once every attempt for a URL has failed.
var ErrFetchFailed = crerr.New("fetch failed")

var errFetchTransient = crerr.New("fetch transient failure")

// Page is the raw content retrieved for one URL.
type Page struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
	Attempts    int
}

// Retries is the number of attempts made after the first one.
func (p Page) Retries() int {
	if p.Attempts <= 1 {
		return 0
	}
	return p.Attempts - 1
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

type ClientConfig struct {
	Name           string
	HTTPClient     *http.Client
	Timeout        time.Duration
	MaxAttempts    int
	UserAgent      string
	AcceptLanguage string
	MaxBodyBytes   int64
	// Backoff returns the wait after the given failed attempt (1-based).
	Backoff        func(attempt int) time.Duration
	RatePerSecond  float64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	name           string
	httpClient     *http.Client
	timeout        time.Duration
	maxAttempts    int
	userAgent      string
	acceptLanguage string
	maxBodyBytes   int64
	backoff        func(attempt int) time.Duration
	limiter        *rate.Limiter
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	backoff := cfg.Backoff
	if backoff == nil {
		backoff = LinearBackoff(time.Second)
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "webfetch"
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker,
		resilience.OnStateChange(func(from, to resilience.CircuitState) {
			logger.Warn(name+" circuit breaker state changed", "from", from, "to", to)
		}),
	)

	return &Client{
		name:           name,
		httpClient:     httpClient,
		timeout:        timeout,
		maxAttempts:    maxAttempts,
		userAgent:      firstNonEmpty(cfg.UserAgent, defaultUserAgent),
		acceptLanguage: firstNonEmpty(cfg.AcceptLanguage, defaultAcceptLanguage),
		maxBodyBytes:   maxBody,
		backoff:        backoff,
		limiter:        limiter,
		logger:         logger,
		breaker:        breaker,
	}
}

// LinearBackoff waits step × attempt after each failed attempt.
func LinearBackoff(step time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// Fetch retrieves url. Concurrent calls for the same url share one request.
func (c *Client) Fetch(ctx context.Context, url string) (Page, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Page{}, crerr.Wrap(ErrFetchFailed, "url is empty")
	}

	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, c.name+" circuit breaker rejected request", "url", url, "state", c.breaker.State())
		return Page{}, crerr.Wrapf(ErrFetchFailed, "%s: %v", url, err)
	}

	out, err, _ := c.flight.Do(url, func() (any, error) {
		page, reqErr := c.executeRequest(ctx, url)
		c.breaker.Record(reqErr != nil && stderrors.Is(reqErr, errFetchTransient))
		return page, reqErr
	})
	if err != nil {
		return Page{}, err
	}

	page, ok := out.(Page)
	if !ok {
		return Page{}, fmt.Errorf("unexpected page payload type %T", out)
	}
	return page, nil
}

func (c *Client) executeRequest(ctx context.Context, url string) (Page, error) {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		attempts = attempt
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return Page{}, crerr.Wrapf(ErrFetchFailed, "%s: %v", url, err)
			}
		}

		page, err := c.attempt(ctx, url)
		if err == nil {
			page.Attempts = attempt
			if attempt > 1 {
				c.logger.DebugContext(ctx, c.name+" request recovered", "url", url, "attempts", attempt)
			}
			return page, nil
		}
		lastErr = err

		if attempt == c.maxAttempts {
			break
		}
		timer := time.NewTimer(c.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return Page{}, crerr.Wrapf(ErrFetchFailed, "%s: %v", url, ctx.Err())
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("request failed")
	}
	c.logger.WarnContext(ctx, c.name+" request failed", "url", url, "attempts", attempts, "error", lastErr)
	return Page{}, crerr.Mark(crerr.Wrapf(lastErr, "%s after %d attempts", url, attempts), ErrFetchFailed)
}

func (c *Client) attempt(ctx context.Context, url string) (Page, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", c.acceptLanguage)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/calendar;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("%w: send request: %v", errFetchTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, c.maxBodyBytes)); err != nil {
		return Page{}, fmt.Errorf("%w: read response body: %v", errFetchTransient, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Page{}, fmt.Errorf("%w: status=%d body=%s", errFetchTransient, resp.StatusCode, abbreviateBody(buf.B))
	}

	body := make([]byte, buf.Len())
	copy(body, buf.B)
	return Page{
		URL:         url,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
	}
	return ""
}
