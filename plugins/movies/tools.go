package movies

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
	// DefaultMaxResults caps how many movies are returned.
	DefaultMaxResults = 5
	// CredentialName is the invocation credential holding the TMDB key.
	CredentialName = "movies_api_key"
	// NotFoundMessage is returned when the search has no results.
	NotFoundMessage = "Sorry, I couldn't find any information about this movie."
)

type GetMoviesInput struct {
	MovieTitle string `json:"movie_title" description:"Title of the movie to search for"`
}

// MovieSummary is the normalized shape of one movie. Image paths are
// absolute CDN URLs or null.
type MovieSummary struct {
	ID            *int64   `json:"id"`
	Title         *string  `json:"title"`
	OriginalTitle *string  `json:"original_title"`
	Overview      *string  `json:"overview"`
	ReleaseDate   *string  `json:"release_date"`
	VoteAverage   *float64 `json:"vote_average"`
	PosterPath    *string  `json:"poster_path"`
	BackdropPath  *string  `json:"backdrop_path"`
}

type GetMoviesOutput struct {
	Status       string         `json:"status"`
	TotalResults int            `json:"totalResults"`
	Movies       []MovieSummary `json:"movies"`
}

type GetMoviesTool struct {
	client     *Client
	maxResults int
}

func NewGetMoviesTool(client *Client, maxResults int, gk *genkit.Genkit, registry *tools.Registry) *GetMoviesTool {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	t := &GetMoviesTool{client: client, maxResults: maxResults}
	if gk == nil || registry == nil {
		return t
	}

	registry.Register(genkit.DefineTool[*GetMoviesInput, *tools.TextResponse](
		gk,
		"get_movies",
		"Searches movies by title on TMDB and returns up to five matches with overview, release date, rating and poster/backdrop image URLs.",
		func(ctx *ai.ToolContext, input *GetMoviesInput) (*tools.TextResponse, error) {
			return registry.ExecuteTool(ctx, "get_movies", tools.ArgsOf(input))
		},
	), func(ctx context.Context, args map[string]interface{}) (*tools.TextResponse, error) {
		return t.Execute(ctx, &GetMoviesInput{MovieTitle: tools.StringParam(args, "movie_title")})
	})
	return t
}

func (t *GetMoviesTool) Execute(ctx context.Context, input *GetMoviesInput) (*tools.TextResponse, error) {
	log.Debugf(ctx, "GetMoviesTool executing with title: %q", input.MovieTitle)

	if t.client == nil {
		return nil, fmt.Errorf("movies client not initialized")
	}

	apiKey := logcontext.Credential(ctx, CredentialName)
	if apiKey == "" {
		log.Warnf(ctx, "GetMoviesTool: credential %s is empty", CredentialName)
	}

	resp, err := t.client.SearchMovies(ctx, input.MovieTitle, apiKey)
	if err != nil {
		log.Errorf(ctx, "GetMoviesTool failed: %v", err)
		return nil, err
	}

	if len(resp.Results) == 0 {
		return tools.Text(NotFoundMessage), nil
	}

	results := resp.Results
	if len(results) > t.maxResults {
		results = results[:t.maxResults]
	}

	out := &GetMoviesOutput{
		Status:       "success",
		TotalResults: len(results),
		Movies:       make([]MovieSummary, 0, len(results)),
	}
	for _, m := range results {
		out.Movies = append(out.Movies, MovieSummary{
			ID:            m.ID,
			Title:         m.Title,
			OriginalTitle: m.OriginalTitle,
			Overview:      m.Overview,
			ReleaseDate:   m.ReleaseDate,
			VoteAverage:   m.VoteAverage,
			PosterPath:    t.client.PosterURL(m.PosterPath),
			BackdropPath:  t.client.BackdropURL(m.BackdropPath),
		})
	}

	log.Debugf(ctx, "GetMoviesTool completed successfully. Returning %d movies.", len(out.Movies))
	return tools.JSON(out), nil
}
