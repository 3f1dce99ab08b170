package books

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

// DefaultBaseURL is the Google Books API root.
const DefaultBaseURL = "https://www.googleapis.com/books/v1"

// Client handles Google Books API requests
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new Google Books client and registers its tools
func NewClient(baseURL string, timeout time.Duration, maxResults int, gk *genkit.Genkit, registry *tools.Registry) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}

	NewGetBooksTool(c, maxResults, gk, registry)

	return c
}

// VolumesResponse is the raw volumes search payload. Only the fields the
// tool extracts are decoded.
type VolumesResponse struct {
	TotalItems *int     `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume is a single search hit.
type Volume struct {
	ID         *string     `json:"id"`
	VolumeInfo *VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo holds the bibliographic data of a volume. Pointer fields stay
// nil when the API omits them.
type VolumeInfo struct {
	Title         *string           `json:"title"`
	Authors       []string          `json:"authors"`
	Publisher     *string           `json:"publisher"`
	PublishedDate *string           `json:"publishedDate"`
	Description   *string           `json:"description"`
	PageCount     *int              `json:"pageCount"`
	Categories    []string          `json:"categories"`
	AverageRating *float64          `json:"averageRating"`
	RatingsCount  *int              `json:"ratingsCount"`
	ImageLinks    map[string]string `json:"imageLinks"`
	Language      *string           `json:"language"`
	PreviewLink   *string           `json:"previewLink"`
	InfoLink      *string           `json:"infoLink"`
}

// SearchVolumes runs a free-text volumes query.
func (c *Client) SearchVolumes(ctx context.Context, title string) (*VolumesResponse, error) {
	params := url.Values{}
	params.Set("q", title)
	endpoint := fmt.Sprintf("%s/volumes?%s", c.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log.Debugf(ctx, "[Books] Searching volumes: q=%q", title)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf(ctx, "[Books] API returned status %d", resp.StatusCode)
	}

	var volumes VolumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&volumes); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &volumes, nil
}
