// Package arxiv fetches candidate papers from the arXiv API and converts
// heterogeneous source records into corpus documents with stable ids.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/paperchase/paperchase/internal/corpus"
)

const (
	// BaseURL is the arXiv export API endpoint.
	BaseURL = "http://export.arxiv.org/api/query"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// requestInterval honors arXiv's one-request-per-three-seconds policy.
	requestInterval = 3 * time.Second

	// DefaultFetchLimit is the number of candidates requested per search.
	DefaultFetchLimit = 20
)

// Client is a rate-limited HTTP client for the arXiv API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRequestInterval overrides the minimum spacing between requests.
func WithRequestInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewClient creates a new arXiv API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(requestInterval), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// atomFeed is the subset of the arXiv Atom response we consume.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
}

// Fetch searches arXiv for the given keywords and returns up to limit
// documents. Records that cannot be parsed are skipped, not fatal to the
// batch; an empty result is not an error at this layer.
func (c *Client) Fetch(ctx context.Context, keywords string, limit int) ([]corpus.Document, error) {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("search_query", "all:"+keywords)
	params.Set("max_results", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned status %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	docs := make([]corpus.Document, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		doc, ok := entryToDocument(entry)
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// entryToDocument converts one Atom entry, tolerating missing fields.
// Entries without a title are malformed and dropped.
func entryToDocument(entry atomEntry) (corpus.Document, bool) {
	title := collapseWhitespace(entry.Title)
	if title == "" {
		return corpus.Document{}, false
	}

	published := corpus.UnknownPublished
	year := 0
	if entry.Published != "" {
		if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
			published = t.Format("2006-01-02")
			year = t.Year()
		}
	}

	return corpus.Document{
		ID:        corpus.DeriveID(title, published),
		Title:     title,
		Abstract:  collapseWhitespace(entry.Summary),
		Published: published,
		Year:      year,
		URL:       entry.ID,
	}, true
}
