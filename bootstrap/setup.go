package bootstrap

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/agenttools/config"
	"github.com/va6996/agenttools/log"
	"github.com/va6996/agenttools/orm"
	"github.com/va6996/agenttools/plugins/books"
	"github.com/va6996/agenttools/plugins/movies"
	"github.com/va6996/agenttools/plugins/news"
	"github.com/va6996/agenttools/plugins/sheets"
	"github.com/va6996/agenttools/tools"
)

// App holds the initialized components of the application
type App struct {
	Genkit   *genkit.Genkit
	Registry *tools.Registry
	Audit    *orm.InvocationStore
	Sheets   *sheets.Tools
	Config   *config.Config
}

// Options overrides pieces of Setup, mainly for tests.
type Options struct {
	// SheetsProvider replaces the Google Sheets provider built from the
	// configured credential files.
	SheetsProvider sheets.Provider
}

// Setup initializes the application components based on the configuration
func Setup(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	// 1. Genkit hosts the tool definitions
	gk := genkit.Init(ctx)

	// 2. Init Tools Registry
	registry := tools.NewRegistry()

	// Initializing each client registers its tools automatically
	books.NewClient(cfg.Books.BaseURL, cfg.HTTP.Timeout, cfg.Books.MaxResults, gk, registry)
	movies.NewClient(cfg.Movies.BaseURL, cfg.Movies.ImageBaseURL, cfg.HTTP.Timeout, cfg.Movies.MaxResults, gk, registry)
	news.NewClient(news.Options{
		BaseURL:    cfg.News.BaseURL,
		Language:   cfg.News.Language,
		SortBy:     cfg.News.SortBy,
		Timeout:    cfg.HTTP.Timeout,
		MaxResults: cfg.News.MaxResults,
	}, gk, registry)

	app := &App{Genkit: gk, Registry: registry, Config: cfg}

	// 3. Spreadsheet-backed tools
	if cfg.Sheets.Enabled {
		provider := opts.SheetsProvider
		if provider == nil {
			gp, err := sheets.NewGoogleProvider(cfg.Sheets.CredentialsFile, cfg.Sheets.FallbackCredentialsFile)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize sheets provider: %w", err)
			}
			log.Infof(ctx, "Using Google Sheets credentials from %s", gp.CredentialsFile)
			provider = gp
		}

		loc, err := sheets.LoadLocation(cfg.Sheets.Timezone)
		if err != nil {
			return nil, err
		}
		app.Sheets = sheets.NewTools(provider, sheets.Config{
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			OrdersTab:     cfg.Sheets.OrdersTab,
			MenuTab:       cfg.Sheets.MenuTab,
			Location:      loc,
		}, gk, registry)
	} else {
		log.Warnf(ctx, "Sheets tools disabled")
	}

	// 4. Optional invocation audit log
	if cfg.Audit.Driver != "" {
		db, err := orm.Open(cfg.Audit.Driver, cfg.Audit.DSN)
		if err != nil {
			return nil, err
		}
		app.Audit = orm.NewInvocationStore(db)
		registry.SetRecorder(app.Audit)
		log.Infof(ctx, "Recording invocations to %s", cfg.Audit.Driver)
	}

	log.Infof(ctx, "Registered tools: %v", registry.Names())
	return app, nil
}
