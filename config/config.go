package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is the config file read when no explicit path is given.
const DefaultPath = "config.yaml"

// Config aggregates all application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	HTTP   HTTPConfig   `yaml:"http"`
	Books  BooksConfig  `yaml:"books"`
	Movies MoviesConfig `yaml:"movies"`
	News   NewsConfig   `yaml:"news"`
	Sheets SheetsConfig `yaml:"sheets"`
	Audit  AuditConfig  `yaml:"audit"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT" env-default:"8000"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// HTTPConfig applies to the upstream API clients. A zero Timeout leaves
// requests bounded only by the caller's context.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"0s"`
}

type BooksConfig struct {
	BaseURL    string `yaml:"base_url" env:"BOOKS_BASE_URL" env-default:"https://www.googleapis.com/books/v1"`
	MaxResults int    `yaml:"max_results" env:"BOOKS_MAX_RESULTS" env-default:"5"`
}

type MoviesConfig struct {
	BaseURL      string `yaml:"base_url" env:"MOVIES_BASE_URL" env-default:"https://api.themoviedb.org/3"`
	ImageBaseURL string `yaml:"image_base_url" env:"MOVIES_IMAGE_BASE_URL" env-default:"https://image.tmdb.org/t/p"`
	APIKey       string `yaml:"api_key" env:"MOVIES_API_KEY"`
	MaxResults   int    `yaml:"max_results" env:"MOVIES_MAX_RESULTS" env-default:"5"`
}

type NewsConfig struct {
	BaseURL    string `yaml:"base_url" env:"NEWS_BASE_URL" env-default:"https://newsapi.org/v2"`
	APIKey     string `yaml:"api_key" env:"NEWS_API_KEY"`
	Language   string `yaml:"language" env:"NEWS_LANGUAGE" env-default:"pt"`
	SortBy     string `yaml:"sort_by" env:"NEWS_SORT_BY" env-default:"popularity"`
	MaxResults int    `yaml:"max_results" env:"NEWS_MAX_RESULTS" env-default:"10"`
}

type SheetsConfig struct {
	Enabled                 bool   `yaml:"enabled" env:"SHEETS_ENABLED" env-default:"true"`
	SpreadsheetID           string `yaml:"spreadsheet_id" env:"SHEETS_SPREADSHEET_ID" env-default:"10Hb8zZqsHn8W2tSySFgPxZeHeP0e0JSc8NakdjGmUJI"`
	OrdersTab               string `yaml:"orders_tab" env:"SHEETS_ORDERS_TAB" env-default:"Pedidos"`
	MenuTab                 string `yaml:"menu_tab" env:"SHEETS_MENU_TAB" env-default:"Pratos"`
	CredentialsFile         string `yaml:"credentials_file" env:"SHEETS_CREDENTIALS_FILE" env-default:"credentials.json"`
	FallbackCredentialsFile string `yaml:"fallback_credentials_file" env:"SHEETS_FALLBACK_CREDENTIALS_FILE" env-default:"tools/credentials.json"`
	Timezone                string `yaml:"timezone" env:"SHEETS_TIMEZONE" env-default:"America/Sao_Paulo"`
}

type AuditConfig struct {
	Driver string `yaml:"driver" env:"AUDIT_DRIVER"`
	DSN    string `yaml:"dsn" env:"AUDIT_DSN" env-default:"agenttools.db"`
}

// Load reads configuration from the YAML file at path (DefaultPath when
// empty) and environment variables.
// Priority: Env Vars > Config File > Defaults
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return &cfg, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env config: %w", err)
	}
	return &cfg, nil
}

// DefaultCredentials returns the credentials configured for the tools,
// keyed the way the tools look them up.
func (c *Config) DefaultCredentials() map[string]string {
	return map[string]string{
		"movies_api_key": c.Movies.APIKey,
		"api_key":        c.News.APIKey,
	}
}
