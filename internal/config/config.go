// Package config loads userctl configuration from a TOML file and the
// environment. Configuration is plumbed explicitly into constructors;
// nothing in this package holds process-wide mutable state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvConfig points at the configuration file carrying directory credentials.
const EnvConfig = "USERCTL_CONFIG"

// EnvLocale overrides the console language and synthetic-data locale.
const EnvLocale = "USERCTL_LOCALE"

// DefaultMongoTimeoutSeconds bounds individual directory calls on the
// MongoDB backend.
const DefaultMongoTimeoutSeconds = 10

// Config holds the complete tool configuration.
type Config struct {
	// Backend selects the directory backend: "file" or "mongo".
	Backend string `toml:"backend"`

	// Locale is the default console language (BCP 47 tag).
	Locale string `toml:"locale"`

	File  FileConfig  `toml:"file"`
	Mongo MongoConfig `toml:"mongo"`
}

// FileConfig configures the JSON-file backend.
type FileConfig struct {
	// Path is the store file location.
	Path string `toml:"path"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	// URI is the connection string.
	URI string `toml:"uri"`

	// Database is the database holding the users collection.
	Database string `toml:"database"`

	// TimeoutSeconds bounds individual directory calls.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Timeout returns the configured call timeout.
func (c MongoConfig) Timeout() time.Duration {
	secs := c.TimeoutSeconds
	if secs <= 0 {
		secs = DefaultMongoTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

// Default returns a config with sensible defaults: the file backend under
// the user's home directory, English console output.
func Default() *Config {
	return &Config{
		Backend: "file",
		Locale:  "en",
		File: FileConfig{
			Path: defaultStorePath(),
		},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "userctl",
			TimeoutSeconds: DefaultMongoTimeoutSeconds,
		},
	}
}

// Load reads configuration from path. An empty path falls back to
// $USERCTL_CONFIG, then to the default location; a missing file is not an
// error and yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// ActiveLocale returns the locale to use, letting USERCTL_LOCALE override
// the configured value.
func (c *Config) ActiveLocale() string {
	if env := os.Getenv(EnvLocale); env != "" {
		return env
	}
	if c.Locale != "" {
		return c.Locale
	}
	return "en"
}

func (c *Config) validate() error {
	switch c.Backend {
	case "file", "mongo":
	case "":
		c.Backend = "file"
	default:
		return fmt.Errorf("unknown backend %q (want \"file\" or \"mongo\")", c.Backend)
	}

	if c.Backend == "mongo" && c.Mongo.URI == "" {
		return errors.New("mongo backend selected but mongo.uri is empty")
	}
	if c.Backend == "file" && c.File.Path == "" {
		c.File.Path = defaultStorePath()
	}
	return nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "userctl.toml"
	}
	return filepath.Join(home, ".config", "userctl", "config.toml")
}

// defaultStorePath returns the default file-backend store location.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "users.json"
	}
	return filepath.Join(home, ".local", "share", "userctl", "users.json")
}
