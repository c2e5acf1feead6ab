package webfetch

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
)

const defaultHeadlessUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

type HeadlessConfig struct {
	Timeout time.Duration
	// Settle is how long to let client-side scripts run after the body is ready.
	Settle    time.Duration
	UserAgent string
	ExecPath  string
	Logger    *logging.Logger
}

// HeadlessFetcher renders a page in headless Chrome and returns the
// resulting document HTML.
type HeadlessFetcher struct {
	timeout   time.Duration
	settle    time.Duration
	userAgent string
	execPath  string
	logger    *logging.Logger
}

func NewHeadlessFetcher(cfg HeadlessConfig) *HeadlessFetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	settle := cfg.Settle
	if settle < 0 {
		settle = 0
	}
	return &HeadlessFetcher{
		timeout:   timeout,
		settle:    settle,
		userAgent: firstNonEmpty(cfg.UserAgent, defaultHeadlessUserAgent),
		execPath:  strings.TrimSpace(cfg.ExecPath),
		logger:    logger,
	}
}

func (h *HeadlessFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(h.userAgent),
	)
	if h.execPath != "" {
		opts = append(opts, chromedp.ExecPath(h.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, h.timeout)
	defer cancel()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if h.settle > 0 {
		actions = append(actions, chromedp.Sleep(h.settle))
	}
	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		h.logger.WarnContext(ctx, "headless render failed", "url", url, "error", err)
		return Page{}, crerr.Mark(crerr.Wrapf(err, "render %s", url), ErrFetchFailed)
	}

	return Page{
		URL:         url,
		Body:        []byte(html),
		ContentType: "text/html; charset=utf-8",
		StatusCode:  200,
		Attempts:    1,
	}, nil
}

// FallbackFetcher tries Primary first and Secondary when Primary fails or
// returns an empty body.
type FallbackFetcher struct {
	Primary   Fetcher
	Secondary Fetcher
	Logger    *logging.Logger
}

func (f FallbackFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	page, err := f.Primary.Fetch(ctx, url)
	if err == nil && len(strings.TrimSpace(string(page.Body))) > 0 {
		return page, nil
	}
	if f.Secondary == nil {
		if err == nil {
			err = crerr.Wrapf(ErrFetchFailed, "%s: empty body", url)
		}
		return Page{}, err
	}

	logger := f.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger.InfoContext(ctx, "primary fetcher yielded nothing, using fallback", "url", url, "error", err)

	fallback, fallbackErr := f.Secondary.Fetch(ctx, url)
	if fallbackErr != nil {
		return Page{}, fallbackErr
	}
	fallback.Attempts += page.Attempts
	return fallback, nil
}
