package movies

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
	// DefaultBaseURL is the TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultImageBaseURL is the TMDB image CDN root.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
)

// Client handles TMDB API requests
type Client struct {
	BaseURL      string
	ImageBaseURL string
	HTTPClient   *http.Client
}

// NewClient creates a new TMDB client and registers its tools
func NewClient(baseURL, imageBaseURL string, timeout time.Duration, maxResults int, gk *genkit.Genkit, registry *tools.Registry) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if imageBaseURL == "" {
		imageBaseURL = DefaultImageBaseURL
	}
	c := &Client{
		BaseURL:      baseURL,
		ImageBaseURL: imageBaseURL,
		HTTPClient:   &http.Client{Timeout: timeout},
	}

	NewGetMoviesTool(c, maxResults, gk, registry)

	return c
}

// SearchResponse is the raw /search/movie payload.
type SearchResponse struct {
	Page         *int    `json:"page"`
	Results      []Movie `json:"results"`
	TotalResults *int    `json:"total_results"`
}

// Movie is one raw search hit. Pointer fields stay nil when absent.
type Movie struct {
	ID            *int64   `json:"id"`
	Title         *string  `json:"title"`
	OriginalTitle *string  `json:"original_title"`
	Overview      *string  `json:"overview"`
	ReleaseDate   *string  `json:"release_date"`
	VoteAverage   *float64 `json:"vote_average"`
	PosterPath    *string  `json:"poster_path"`
	BackdropPath  *string  `json:"backdrop_path"`
}

// SearchMovies queries TMDB by title using apiKey.
func (c *Client) SearchMovies(ctx context.Context, title, apiKey string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("query", title)
	endpoint := fmt.Sprintf("%s/search/movie?%s", c.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log.Debugf(ctx, "[Movies] Searching movies: query=%q", title)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf(ctx, "[Movies] API returned status %d", resp.StatusCode)
	}

	var search SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &search, nil
}

// PosterURL composes the w500 poster URL, or nil when path is absent.
func (c *Client) PosterURL(path *string) *string {
	return c.imageURL("w500", path)
}

// BackdropURL composes the original-size backdrop URL, or nil when path is absent.
func (c *Client) BackdropURL(path *string) *string {
	return c.imageURL("original", path)
}

func (c *Client) imageURL(size string, path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := fmt.Sprintf("%s/%s%s", c.ImageBaseURL, size, *path)
	return &u
}
