package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/agenttools/log"
	"github.com/va6996/agenttools/tools"
)

const (
	// DefaultBaseURL is the NewsAPI v2 root.
	DefaultBaseURL  = "https://newsapi.org/v2"
	DefaultLanguage = "pt"
	DefaultSortBy   = "popularity"
)

// Client handles NewsAPI requests
type Client struct {
	BaseURL    string
	Language   string
	SortBy     string
	HTTPClient *http.Client
}

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL    string
	Language   string
	SortBy     string
	Timeout    time.Duration
	MaxResults int
}

// NewClient creates a new NewsAPI client and registers its tools
func NewClient(opts Options, gk *genkit.Genkit, registry *tools.Registry) *Client {
	c := &Client{
		BaseURL:    opts.BaseURL,
		Language:   opts.Language,
		SortBy:     opts.SortBy,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.SortBy == "" {
		c.SortBy = DefaultSortBy
	}

	NewGetNewsTool(c, opts.MaxResults, gk, registry)

	return c
}

// EverythingResponse is the raw /everything payload.
type EverythingResponse struct {
	Status       *string   `json:"status"`
	TotalResults *int      `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         *string   `json:"code,omitempty"`
	Message      *string   `json:"message,omitempty"`
}

// Article is a single news article, passed through without derivation.
type Article struct {
	Source      map[string]any `json:"source"`
	Author      *string        `json:"author"`
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	URL         *string        `json:"url"`
	URLToImage  *string        `json:"urlToImage"`
	PublishedAt *string        `json:"publishedAt"`
	Content     *string        `json:"content"`
}

// SearchEverything queries articles about topic, sorted and restricted to
// the client's language.
func (c *Client) SearchEverything(ctx context.Context, topic, apiKey string) (*EverythingResponse, error) {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("sortBy", c.SortBy)
	params.Set("apiKey", apiKey)
	params.Set("language", c.Language)
	endpoint := fmt.Sprintf("%s/everything?%s", c.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log.Debugf(ctx, "[News] Searching articles: q=%q language=%s sortBy=%s", topic, c.Language, c.SortBy)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search news: %w", err)
	}
	defer resp.Body.Close()

	var everything EverythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&everything); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := ""
		if everything.Message != nil {
			msg = *everything.Message
		}
		log.Warnf(ctx, "[News] API returned status %d: %s", resp.StatusCode, msg)
	}

	return &everything, nil
}
