package web

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rva-directmail/internal/config"
)

// Config represents the web server configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Regions  RegionsConfig  `json:"regions"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	URL            string `json:"url"`
	MaxConnections int    `json:"max_connections"`
}

// RegionsConfig points at the regions threshold file.
type RegionsConfig struct {
	Path string `json:"path"`
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultConfig builds a configuration from the environment. DATABASE_URL
// wins when set; otherwise the URL is assembled from the PG* variables the
// processor CLI also uses.
func DefaultConfig() *Config {
	url := config.GetEnv("DATABASE_URL", "")
	if url == "" {
		url = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			config.GetEnv("PGUSER", "postgres"),
			config.GetEnv("PGPASSWORD", "postgres"),
			config.GetEnv("PGHOST", "localhost"),
			config.GetEnv("PGPORT", "5432"),
			config.GetEnv("PGDATABASE", "directmail"))
	}

	return &Config{
		Server: ServerConfig{
			Port: config.GetEnvInt("WEB_PORT", 8080),
			Host: config.GetEnv("WEB_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			URL:            url,
			MaxConnections: config.GetEnvInt("DB_MAX_CONNECTIONS", 10),
		},
		Regions: RegionsConfig{
			Path: config.GetEnv("REGIONS_FILE", "regions.toml"),
		},
	}
}
