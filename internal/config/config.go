// ABOUTME: Configuration loading and validation for care-gateway
// ABOUTME: Supports YAML and TOML files with environment variable expansion

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Environment variable names for the required configuration keys.
// These mirror the deployment environment of the hosted assistant.
const (
	EnvDatastoreURL    = "DATASTORE_URL"
	EnvDatastoreAPIKey = "DATASTORE_API_KEY"
	EnvDoctorAPIKey    = "DOCTOR_API_KEY"
	EnvSkinAPIKey      = "SKIN_ANALYSIS_API_KEY"
)

// Default provider endpoints. Overridable in config for testing.
const (
	DefaultDoctorAPIURL = "https://api.betterdoctor.com/2016-05-02"
	DefaultSkinAPIURL   = "https://api.skinvision.com/v1"
)

// ConfigurationError reports missing required configuration keys.
// It names every missing key so a single startup failure is actionable.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// Config represents the complete care-gateway configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Datastore DatastoreConfig `yaml:"datastore" toml:"datastore"`
	Providers ProvidersConfig `yaml:"providers" toml:"providers"`
	MCP       MCPConfig       `yaml:"mcp" toml:"mcp"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
}

// DatastoreConfig holds backing data store configuration.
// URL and APIKey address a remote PostgREST-style store. When Path is set
// the gateway runs against a local SQLite database instead and the remote
// pair is not required.
type DatastoreConfig struct {
	URL    string `yaml:"url" toml:"url"`
	APIKey string `yaml:"api_key" toml:"api_key"`
	Path   string `yaml:"path" toml:"path"`
}

// ProvidersConfig holds external healthcare API configuration
type ProvidersConfig struct {
	DoctorAPIURL string `yaml:"doctor_api_url" toml:"doctor_api_url"`
	DoctorAPIKey string `yaml:"doctor_api_key" toml:"doctor_api_key"`
	SkinAPIURL   string `yaml:"skin_api_url" toml:"skin_api_url"`
	SkinAPIKey   string `yaml:"skin_api_key" toml:"skin_api_key"`
}

// MCPConfig holds MCP endpoint configuration
type MCPConfig struct {
	// RequireAuth rejects MCP requests that do not carry a valid access token
	RequireAuth bool `yaml:"require_auth" toml:"require_auth"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded.
// TOML files are recognized by the .toml extension; everything else is
// parsed as YAML. A missing file is not an error: all required values can
// come straight from the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := expandEnvVars(string(data))
		if filepath.Ext(path) == ".toml" {
			if err := toml.Unmarshal([]byte(expanded), &cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	case errors.Is(err, os.ErrNotExist):
		// Environment-only configuration
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv fills any value not set in the file from the environment.
// Environment values never override an explicit file value.
func (c *Config) applyEnv() {
	if c.Datastore.URL == "" {
		c.Datastore.URL = os.Getenv(EnvDatastoreURL)
	}
	if c.Datastore.APIKey == "" {
		c.Datastore.APIKey = os.Getenv(EnvDatastoreAPIKey)
	}
	if c.Providers.DoctorAPIKey == "" {
		c.Providers.DoctorAPIKey = os.Getenv(EnvDoctorAPIKey)
	}
	if c.Providers.SkinAPIKey == "" {
		c.Providers.SkinAPIKey = os.Getenv(EnvSkinAPIKey)
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = "localhost:8080"
	}
	if c.Providers.DoctorAPIURL == "" {
		c.Providers.DoctorAPIURL = DefaultDoctorAPIURL
	}
	if c.Providers.SkinAPIURL == "" {
		c.Providers.SkinAPIURL = DefaultSkinAPIURL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that every required configuration value is present.
// Unlike a first-failure check, it collects all missing keys into a single
// ConfigurationError so an operator can fix the environment in one pass.
// Validation runs before any client is constructed.
func (c *Config) Validate() error {
	var missing []string

	if c.Datastore.Path == "" {
		if c.Datastore.URL == "" {
			missing = append(missing, EnvDatastoreURL)
		}
		if c.Datastore.APIKey == "" {
			missing = append(missing, EnvDatastoreAPIKey)
		}
	}
	if c.Providers.DoctorAPIKey == "" {
		missing = append(missing, EnvDoctorAPIKey)
	}
	if c.Providers.SkinAPIKey == "" {
		missing = append(missing, EnvSkinAPIKey)
	}

	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}
