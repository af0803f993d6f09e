package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Reader   ReaderConfig   `mapstructure:"reader"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	OPDSPath  string `mapstructure:"opds_path"`
	APIKey    string `mapstructure:"api_key"`
	LibraryID string `mapstructure:"library_id"`
}

type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type ReaderConfig struct {
	FallbackHeight    int     `mapstructure:"fallback_height"` // column units used until a page's size is known
	Concurrency       int     `mapstructure:"concurrency"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"` // empty means a dated file under ~/.opdsreader/logs
}

var (
	ErrMissingBaseURL = errors.New("server.base_url is not set")
	ErrMissingAPIKey  = errors.New("server.api_key is not set")
)

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"base-url": "server.base_url",
	"api-key":  "server.api_key",
	"library":  "server.library_id",
}

// Dir is the per-user state directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".opdsreader"
	}
	return filepath.Join(home, ".opdsreader")
}

// Load reads config.yaml from configFile (or from . and ~/.opdsreader when
// empty), overlays OPDSREADER_* environment variables and any changed flags.
// A missing config file is not an error.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.base_url", "")
	v.SetDefault("server.opds_path", "/api/opds")
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.library_id", "1")
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", "opdsreader/0.1")
	v.SetDefault("reader.fallback_height", 40)
	v.SetDefault("reader.concurrency", 4)
	v.SetDefault("reader.requests_per_second", 4.0)
	v.SetDefault("database.path", filepath.Join(Dir(), "progress.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	// OPDSREADER_SERVER_BASE_URL=http://localhost:5000
	v.SetEnvPrefix("OPDSREADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Server.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.Server.BaseURL), "/")
	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Log.Path = expandHome(cfg.Log.Path)

	return cfg, nil
}

// Validate reports settings the server connection cannot do without.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.BaseURL == "" {
		errs = append(errs, ErrMissingBaseURL)
	}
	if c.Server.APIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	return errors.Join(errs...)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
