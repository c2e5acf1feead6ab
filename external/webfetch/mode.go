package webfetch

import (
	"fmt"
	"strings"
)

type RenderMode string

const (
	RenderModeHTTP     RenderMode = "http"
	RenderModeHeadless RenderMode = "headless"
	RenderModeFallback RenderMode = "fallback"
)

func ParseRenderMode(raw string) (RenderMode, error) {
	switch RenderMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RenderModeHTTP:
		return RenderModeHTTP, nil
	case RenderModeHeadless:
		return RenderModeHeadless, nil
	case RenderModeFallback:
		return RenderModeFallback, nil
	default:
		return "", fmt.Errorf("unsupported render mode %q", raw)
	}
}

// Select picks the fetcher for mode. Fallback renders only when the plain
// HTTP fetch fails.
func Select(mode RenderMode, plain Fetcher, headless Fetcher) Fetcher {
	switch mode {
	case RenderModeHeadless:
		if headless != nil {
			return headless
		}
	case RenderModeFallback:
		if headless != nil {
			return FallbackFetcher{Primary: plain, Secondary: headless}
		}
	}
	return plain
}
