package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gitlab.com/dirk.krummacker/contact-list/internal/persistence"
)

// Config holds the settings of the contacts service. All values are taken from the system's
// environment variables.
type Config struct {
	Port int `env:"PORT,required"`

	// SlotBackend selects where the contact collection is kept: file, sqlite, mysql or memory.
	SlotBackend string `env:"SLOT_BACKEND" envDefault:"file"`
	// SlotPath is the directory of the file backend or the database file of the sqlite backend.
	SlotPath string `env:"SLOT_PATH" envDefault:"data"`
	SlotKey  string `env:"SLOT_KEY"  envDefault:"nexus_contacts_v1"`

	DBHost     string `env:"DBHOST" envDefault:"localhost"`
	DBUser     string `env:"DBUSER"`
	DBPassword string `env:"DBPWD"`
	DBName     string `env:"DBNAME" envDefault:"test"`

	GinLogging string `env:"GIN_LOGGING"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	APIKey        string `env:"API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`

	SeedFile string `env:"SEED_FILE"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that env cannot check by itself.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	switch c.SlotBackend {
	case "file", "sqlite", "mysql", "memory":
	default:
		return fmt.Errorf("invalid SLOT_BACKEND %q", c.SlotBackend)
	}
	return nil
}

// RequestLogging reports whether gin shall log every HTTP request.
func (c Config) RequestLogging() bool {
	return !strings.EqualFold(c.GinLogging, "off")
}

// GeminiKey returns the API key of the extraction service. GEMINI_API_KEY takes precedence over
// API_KEY.
func (c Config) GeminiKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.APIKey
}

// SlotDSN returns the driver and data source name of the SQL backends.
func (c Config) SlotDSN() (driver string, dsn string) {
	if c.SlotBackend == "mysql" {
		return "mysql", persistence.MySQLDSN(c.DBUser, c.DBPassword, c.DBHost, c.DBName)
	}
	path := c.SlotPath
	if filepath.Ext(path) == "" {
		path = filepath.Join(path, "contacts.db")
	}
	return "sqlite", path
}
