package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	t.Run("DefaultConfig", func(t *testing.T) {
		unsetenv(t, "MOVIES_API_KEY", "NEWS_API_KEY", "NEWS_LANGUAGE", "SHEETS_ORDERS_TAB", "AUDIT_DRIVER", "PORT", "HTTP_TIMEOUT")

		cfg, err := Load(missing)
		require.NoError(t, err)

		assert.Equal(t, "8000", cfg.Server.Port)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Zero(t, cfg.HTTP.Timeout)
		assert.Equal(t, "https://www.googleapis.com/books/v1", cfg.Books.BaseURL)
		assert.Equal(t, 5, cfg.Books.MaxResults)
		assert.Equal(t, "https://image.tmdb.org/t/p", cfg.Movies.ImageBaseURL)
		assert.Equal(t, 5, cfg.Movies.MaxResults)
		assert.Equal(t, "pt", cfg.News.Language)
		assert.Equal(t, "popularity", cfg.News.SortBy)
		assert.Equal(t, 10, cfg.News.MaxResults)
		assert.True(t, cfg.Sheets.Enabled)
		assert.Equal(t, "10Hb8zZqsHn8W2tSySFgPxZeHeP0e0JSc8NakdjGmUJI", cfg.Sheets.SpreadsheetID)
		assert.Equal(t, "Pedidos", cfg.Sheets.OrdersTab)
		assert.Equal(t, "Pratos", cfg.Sheets.MenuTab)
		assert.Equal(t, "America/Sao_Paulo", cfg.Sheets.Timezone)
		assert.Empty(t, cfg.Audit.Driver)
	})

	t.Run("EnvironmentVariables", func(t *testing.T) {
		t.Setenv("MOVIES_API_KEY", "tmdb-key")
		t.Setenv("NEWS_API_KEY", "news-key")
		t.Setenv("SHEETS_ORDERS_TAB", "Orders")
		t.Setenv("HTTP_TIMEOUT", "15s")

		cfg, err := Load(missing)
		require.NoError(t, err)

		assert.Equal(t, "Orders", cfg.Sheets.OrdersTab)
		assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, map[string]string{
			"movies_api_key": "tmdb-key",
			"api_key":        "news-key",
		}, cfg.DefaultCredentials())
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		err := os.WriteFile(path, []byte("news:\n  language: en\nsheets:\n  menu_tab: Menu\n"), 0o600)
		require.NoError(t, err)

		unsetenv(t, "NEWS_LANGUAGE", "SHEETS_MENU_TAB", "SHEETS_ORDERS_TAB")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "en", cfg.News.Language)
		assert.Equal(t, "Menu", cfg.Sheets.MenuTab)
		assert.Equal(t, "Pedidos", cfg.Sheets.OrdersTab)
	})
}

// unsetenv clears the variables for the duration of the test; cleanenv
// treats a variable set to "" as an explicit value.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
