// Package search retrieves web evidence for claims: a search-API client,
// an optional page-text extractor, and the retriever that assembles
// evidence bundles.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ppiankov/claimstream/internal/cache"
	"github.com/ppiankov/claimstream/internal/errs"
	"github.com/ppiankov/claimstream/internal/httputil"
	"github.com/ppiankov/claimstream/internal/model"
)

// searchBaseURL is a variable so tests can point the client at a stub server.
var searchBaseURL = "https://www.googleapis.com/customsearch/v1"

// The search API caps a single request at 10 results.
const maxAPIResults = 10

// Client issues queries against the Custom Search JSON API
type Client struct {
	apiKey     string
	engineID   string
	httpClient *http.Client
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
	maxRetries int
}

// NewClient creates a search client. responseCache may be nil.
func NewClient(apiKey, engineID string, timeout time.Duration, maxRetries int, responseCache cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		engineID:   engineID,
		httpClient: &http.Client{Timeout: timeout},
		cache:      responseCache,
		cacheTTL:   cacheTTL,
		maxRetries: maxRetries,
	}
}

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search returns up to numResults hits for the query, ranked in
// provider order with positional relevance 1/rank.
func (c *Client) Search(ctx context.Context, query string, numResults int) ([]model.EvidenceItem, error) {
	if numResults <= 0 {
		numResults = 5
	}
	if numResults > maxAPIResults {
		numResults = maxAPIResults
	}

	cacheKey := cache.Key("search", query+"#"+strconv.Itoa(numResults))
	if c.cache != nil {
		if data, found := c.cache.Get(cacheKey); found {
			var items []model.EvidenceItem
			if err := json.Unmarshal(data, &items); err == nil {
				return items, nil
			}
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("num", strconv.Itoa(numResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return nil, errs.Transport("search", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.Transport("search", fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errs.Parse("search response", err)
	}

	items := make([]model.EvidenceItem, 0, len(decoded.Items))
	for i, item := range decoded.Items {
		if i >= numResults {
			break
		}
		items = append(items, model.EvidenceItem{
			Title:          item.Title,
			URL:            item.Link,
			Snippet:        item.Snippet,
			Rank:           i + 1,
			RelevanceScore: 1.0 / float64(i+1),
		})
	}

	if c.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			_ = c.cache.Set(cacheKey, data, c.cacheTTL)
		}
	}

	return items, nil
}
