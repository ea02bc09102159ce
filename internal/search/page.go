package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/ppiankov/claimstream/internal/cache"
	"github.com/ppiankov/claimstream/internal/errs"
	"github.com/ppiankov/claimstream/internal/worker"
)

// PageExtractor fetches a result URL and extracts its visible text,
// bounded in length, for use as verification evidence.
type PageExtractor struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxLength  int
	robots     *robotsChecker
	limiter    *worker.Limiter
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
}

// NewPageExtractor creates a page-text extractor. pageCache may be nil.
func NewPageExtractor(timeout time.Duration, userAgent string, maxBytes int64, maxLength int, limiter *worker.Limiter, pageCache cache.Cache, cacheTTL time.Duration) *PageExtractor {
	if maxLength <= 0 {
		maxLength = 5000
	}
	return &PageExtractor{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		maxLength: maxLength,
		robots:    newRobotsChecker(userAgent, timeout),
		limiter:   limiter,
		cache:     pageCache,
		cacheTTL:  cacheTTL,
	}
}

// ExtractText fetches rawURL and returns its visible text, collapsed to
// single spaces and truncated to maxLength with an ellipsis marker.
// Pages disallowed by robots.txt yield an empty string, not an error.
func (e *PageExtractor) ExtractText(ctx context.Context, rawURL string) (string, error) {
	cacheKey := cache.Key("page", rawURL)
	if e.cache != nil {
		if data, found := e.cache.Get(cacheKey); found {
			return string(data), nil
		}
	}

	allowed, err := e.robots.canFetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", nil
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, rawURL); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", errs.Transport("fetch page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errs.Transport("fetch page", fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	text, err := visibleText(string(body))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	text = truncate(text, e.maxLength)

	if e.cache != nil {
		_ = e.cache.Set(cacheKey, []byte(text), e.cacheTTL)
	}

	return text, nil
}

// truncate cuts text to at most max bytes on a rune boundary and marks
// the cut with an ellipsis
func truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

// visibleText extracts text nodes from HTML, skipping script, style and
// noscript subtrees, and collapses all whitespace runs to single spaces.
func visibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(sb.String()), " "), nil
}
