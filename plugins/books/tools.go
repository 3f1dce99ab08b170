package books

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/agenttools/log"
	"github.com/va6996/agenttools/tools"
)

const (
	// DefaultMaxResults caps how many books are returned.
	DefaultMaxResults = 5
	// NotFoundMessage is returned when the search has no items.
	NotFoundMessage = "Sorry, I couldn't find any information about this book."
)

type GetBooksInput struct {
	BookTitle string `json:"book_title" description:"Title (or any free text) to search books for"`
}

// BookSummary is the normalized shape of one volume.
type BookSummary struct {
	ID            *string           `json:"id"`
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

type GetBooksOutput struct {
	Status       string        `json:"status"`
	TotalResults int           `json:"totalResults"`
	Books        []BookSummary `json:"books"`
}

type GetBooksTool struct {
	client     *Client
	maxResults int
}

func NewGetBooksTool(client *Client, maxResults int, gk *genkit.Genkit, registry *tools.Registry) *GetBooksTool {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	t := &GetBooksTool{client: client, maxResults: maxResults}
	if gk == nil || registry == nil {
		return t
	}

	registry.Register(genkit.DefineTool[*GetBooksInput, *tools.TextResponse](
		gk,
		"get_books",
		"Searches books by title and returns up to five matches with authors, publisher, description, ratings and links.",
		func(ctx *ai.ToolContext, input *GetBooksInput) (*tools.TextResponse, error) {
			return registry.ExecuteTool(ctx, "get_books", tools.ArgsOf(input))
		},
	), func(ctx context.Context, args map[string]interface{}) (*tools.TextResponse, error) {
		return t.Execute(ctx, &GetBooksInput{BookTitle: tools.StringParam(args, "book_title")})
	})
	return t
}

func (t *GetBooksTool) Execute(ctx context.Context, input *GetBooksInput) (*tools.TextResponse, error) {
	log.Debugf(ctx, "GetBooksTool executing with title: %q", input.BookTitle)

	if t.client == nil {
		return nil, fmt.Errorf("books client not initialized")
	}

	resp, err := t.client.SearchVolumes(ctx, input.BookTitle)
	if err != nil {
		log.Errorf(ctx, "GetBooksTool failed: %v", err)
		return nil, err
	}

	if len(resp.Items) == 0 {
		return tools.Text(NotFoundMessage), nil
	}

	items := resp.Items
	if len(items) > t.maxResults {
		items = items[:t.maxResults]
	}

	out := &GetBooksOutput{
		Status:       "success",
		TotalResults: len(items),
		Books:        make([]BookSummary, 0, len(items)),
	}
	for _, item := range items {
		out.Books = append(out.Books, summarize(item))
	}

	log.Debugf(ctx, "GetBooksTool completed successfully. Returning %d books.", len(out.Books))
	return tools.JSON(out), nil
}

// summarize maps a raw volume to a BookSummary. List fields default to empty
// containers and scalars to nil.
func summarize(v Volume) BookSummary {
	info := v.VolumeInfo
	if info == nil {
		info = &VolumeInfo{}
	}

	s := BookSummary{
		ID:            v.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
		ImageLinks:    info.ImageLinks,
		Language:      info.Language,
		PreviewLink:   info.PreviewLink,
		InfoLink:      info.InfoLink,
	}
	if s.Authors == nil {
		s.Authors = []string{}
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}
	if s.ImageLinks == nil {
		s.ImageLinks = map[string]string{}
	}
	return s
}
