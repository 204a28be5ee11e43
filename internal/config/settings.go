package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Auth type constants
const (
	AuthTypeNone   = "none"
	AuthTypeBasic  = "basic"
	AuthTypeAPIKey = "apikey"
)

// AuthSettings configuration for authentication
type AuthSettings struct {
	Type    string            `mapstructure:"type"` // AuthTypeNone, AuthTypeBasic, or AuthTypeAPIKey
	Basic   BasicAuthSettings `mapstructure:"basic"`
	APIKeys []string          `mapstructure:"api_keys"`
}

// BasicAuthSettings configuration for basic auth
type BasicAuthSettings struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// IndexSettings configuration for repository indexing
type IndexSettings struct {
	BaseDir      string        `mapstructure:"base_dir"`
	IndexTimeout time.Duration `mapstructure:"index_timeout"`
	MaxFileSize  int64         `mapstructure:"max_file_size"`
	MaxResults   int           `mapstructure:"max_results"`
}

// Settings application settings
type Settings struct {
	Transport string        `mapstructure:"transport"`
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Auth      AuthSettings  `mapstructure:"auth"`
	Index     IndexSettings `mapstructure:"index"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("transport", "stdio")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("auth.type", AuthTypeNone)

	// Index defaults
	v.SetDefault("index.base_dir", defaultBaseDir())
	v.SetDefault("index.index_timeout", 10*time.Minute)
	v.SetDefault("index.max_file_size", int64(256*1024)) // 256KB
	v.SetDefault("index.max_results", 50)

	// Environment variables
	v.SetEnvPrefix("CODESCOPE_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("auth.type", "CODESCOPE_MCP_AUTH_TYPE")
	_ = v.BindEnv("auth.basic.username", "CODESCOPE_MCP_AUTH_BASIC_USERNAME")
	_ = v.BindEnv("auth.basic.password", "CODESCOPE_MCP_AUTH_BASIC_PASSWORD")
	_ = v.BindEnv("auth.api_keys", "CODESCOPE_MCP_AUTH_API_KEYS")

	// Index env var bindings
	_ = v.BindEnv("index.base_dir", "CODESCOPE_MCP_INDEX_BASE_DIR")
	_ = v.BindEnv("index.index_timeout", "CODESCOPE_MCP_INDEX_INDEX_TIMEOUT")
	_ = v.BindEnv("index.max_file_size", "CODESCOPE_MCP_INDEX_MAX_FILE_SIZE")
	_ = v.BindEnv("index.max_results", "CODESCOPE_MCP_INDEX_MAX_RESULTS")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("transport", flags.Lookup("transport"))
		_ = v.BindPFlag("host", flags.Lookup("host"))
		_ = v.BindPFlag("port", flags.Lookup("port"))
		_ = v.BindPFlag("auth.type", flags.Lookup("auth-type"))
		_ = v.BindPFlag("auth.basic.username", flags.Lookup("auth-basic-username"))
		_ = v.BindPFlag("auth.basic.password", flags.Lookup("auth-basic-password"))
		_ = v.BindPFlag("auth.api_keys", flags.Lookup("auth-api-keys"))

		// Index CLI flags
		_ = v.BindPFlag("index.base_dir", flags.Lookup("index-base-dir"))
		_ = v.BindPFlag("index.index_timeout", flags.Lookup("index-timeout"))
		_ = v.BindPFlag("index.max_file_size", flags.Lookup("index-max-file-size"))
		_ = v.BindPFlag("index.max_results", flags.Lookup("index-max-results"))
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Handle explicit parsing of API keys if provided via env var as comma-separated string
	apiKeysEnv := os.Getenv("CODESCOPE_MCP_AUTH_API_KEYS")
	if apiKeysEnv != "" {
		if len(settings.Auth.APIKeys) == 0 || (len(settings.Auth.APIKeys) == 1 && strings.Contains(settings.Auth.APIKeys[0], ",")) {
			settings.Auth.APIKeys = strings.Split(apiKeysEnv, ",")
		}
	}

	// Trim spaces from API keys
	for i := range settings.Auth.APIKeys {
		settings.Auth.APIKeys[i] = strings.TrimSpace(settings.Auth.APIKeys[i])
	}

	// Expand home directory in base_dir
	settings.Index.BaseDir = expandHomeDir(settings.Index.BaseDir)

	return &settings, nil
}

// defaultBaseDir returns the default base directory for clones
func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codescope-mcp"
	}
	return filepath.Join(home, ".codescope-mcp")
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// ValidateSettings checks for conflicting configurations.
// Returns an error if the settings contain mutually exclusive or incomplete auth config.
func ValidateSettings(s *Settings) error {
	// Validate transport type
	switch s.Transport {
	case "stdio", "sse":
		// valid
	default:
		return errors.New("transport must be 'stdio' or 'sse', got: " + s.Transport)
	}

	hasBasicCreds := s.Auth.Basic.Username != "" || s.Auth.Basic.Password != ""
	hasAPIKeys := len(s.Auth.APIKeys) > 0

	switch s.Auth.Type {
	case AuthTypeNone, "":
		if hasBasicCreds || hasAPIKeys {
			return errors.New("auth-type 'none' is incompatible with auth credentials")
		}
	case AuthTypeBasic:
		if hasAPIKeys {
			return errors.New("auth-type 'basic' is mutually exclusive with auth-api-keys")
		}
		if s.Auth.Basic.Username == "" || s.Auth.Basic.Password == "" {
			return errors.New("auth-type 'basic' requires both username and password")
		}
	case AuthTypeAPIKey:
		if hasBasicCreds {
			return errors.New("auth-type 'apikey' is mutually exclusive with basic auth credentials")
		}
		if !hasAPIKeys {
			return errors.New("auth-type 'apikey' requires at least one API key")
		}
	default:
		return errors.New("unknown auth-type: " + s.Auth.Type)
	}

	return validateIndexSettings(&s.Index)
}

// validateIndexSettings validates the indexing configuration
func validateIndexSettings(i *IndexSettings) error {
	if i.BaseDir == "" {
		return errors.New("index-base-dir cannot be empty")
	}

	if i.IndexTimeout <= 0 {
		return errors.New("index-timeout must be positive")
	}

	if i.MaxFileSize <= 0 {
		return errors.New("index-max-file-size must be positive")
	}

	if i.MaxResults <= 0 {
		return errors.New("index-max-results must be positive")
	}

	return nil
}
