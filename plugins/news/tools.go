package news

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	logcontext "github.com/va6996/agenttools/context"
	"github.com/va6996/agenttools/log"
	"github.com/va6996/agenttools/tools"
)

const (
	// DefaultMaxResults caps how many articles are returned.
	DefaultMaxResults = 10
	// CredentialName is the invocation credential holding the NewsAPI key.
	CredentialName = "api_key"
	// NotFoundMessage is returned when the search has no articles.
	NotFoundMessage = "Sorry, I couldn't find any news on this topic."
)

type GetNewsInput struct {
	Topic string `json:"topic" description:"Topic or keywords to search news for"`
}

// GetNewsOutput carries the upstream status verbatim, unlike the other
// search tools which always report "success".
type GetNewsOutput struct {
	Status       *string   `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

type GetNewsTool struct {
	client     *Client
	maxResults int
}

func NewGetNewsTool(client *Client, maxResults int, gk *genkit.Genkit, registry *tools.Registry) *GetNewsTool {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	t := &GetNewsTool{client: client, maxResults: maxResults}
	if gk == nil || registry == nil {
		return t
	}

	registry.Register(genkit.DefineTool[*GetNewsInput, *tools.TextResponse](
		gk,
		"get_news",
		"Searches the most popular Portuguese-language news about a topic and returns up to ten articles.",
		func(ctx *ai.ToolContext, input *GetNewsInput) (*tools.TextResponse, error) {
			return registry.ExecuteTool(ctx, "get_news", tools.ArgsOf(input))
		},
	), func(ctx context.Context, args map[string]interface{}) (*tools.TextResponse, error) {
		return t.Execute(ctx, &GetNewsInput{Topic: tools.StringParam(args, "topic")})
	})
	return t
}

func (t *GetNewsTool) Execute(ctx context.Context, input *GetNewsInput) (*tools.TextResponse, error) {
	log.Debugf(ctx, "GetNewsTool executing with topic: %q", input.Topic)

	if t.client == nil {
		return nil, fmt.Errorf("news client not initialized")
	}

	resp, err := t.client.SearchEverything(ctx, input.Topic, logcontext.Credential(ctx, CredentialName))
	if err != nil {
		log.Errorf(ctx, "GetNewsTool failed: %v", err)
		return nil, err
	}

	if len(resp.Articles) == 0 {
		return tools.Text(NotFoundMessage), nil
	}

	articles := resp.Articles
	if len(articles) > t.maxResults {
		articles = articles[:t.maxResults]
	}

	out := &GetNewsOutput{
		Status:       resp.Status,
		TotalResults: len(articles),
		Articles:     make([]Article, 0, len(articles)),
	}
	for _, a := range articles {
		if a.Source == nil {
			a.Source = map[string]any{}
		}
		out.Articles = append(out.Articles, a)
	}

	log.Debugf(ctx, "GetNewsTool completed successfully. Returning %d articles.", len(out.Articles))
	return tools.JSON(out), nil
}
