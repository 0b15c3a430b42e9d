package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	Auth0     Auth0Config     `mapstructure:"auth0"`
	Descope   DescopeConfig   `mapstructure:"descope"`
	Migration MigrationConfig `mapstructure:"migration"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Auth0Config defines the source tenant configuration
type Auth0Config struct {
	TenantID string `mapstructure:"tenant_id"` // Auth0 tenant identifier (subdomain)
	Token    string `mapstructure:"token"`     // Management API bearer token
	BaseURL  string `mapstructure:"base_url"`  // Overrides the derived https://<tenant>.us.auth0.com/api/v2
}

// DescopeConfig defines the target project configuration
type DescopeConfig struct {
	ProjectID     string `mapstructure:"project_id"`
	ManagementKey string `mapstructure:"management_key"`
	BaseURL       string `mapstructure:"base_url"`
}

// MigrationConfig defines migration behavior knobs
type MigrationConfig struct {
	PageSize    int `mapstructure:"page_size"`    // Source listing page size
	MaxAttempts int `mapstructure:"max_attempts"` // Retry attempts per API call
}

// DatabaseConfig defines the optional local audit database
type DatabaseConfig struct {
	Enabled                bool   `mapstructure:"enabled"`
	Type                   string `mapstructure:"type"` // "sqlite", "postgres", or "sqlserver"
	DSN                    string `mapstructure:"dsn"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `mapstructure:"conn_max_lifetime_seconds"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // "debug", "info", "warn", "error"
	Format     string `mapstructure:"format"` // "json" or "text"
	OutputFile string `mapstructure:"output_file"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// Validation errors for the four required credential inputs. Their contents
// are opaque to the tool; only presence is checked.
var (
	ErrAuth0TenantRequired     = errors.New("auth0 tenant_id is required")
	ErrAuth0TokenRequired      = errors.New("auth0 token is required")
	ErrDescopeProjectRequired  = errors.New("descope project_id is required")
	ErrDescopeMgmtKeyRequired  = errors.New("descope management_key is required")
	ErrUnsupportedDatabaseType = errors.New("unsupported database type")
)

func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from the given file, or from the default
// search paths when path is empty. A missing config file is fine: everything
// can come from the environment, including a .env file.
func LoadFrom(path string) (*Config, error) {
	_ = gotenv.Load() // best effort; absence of .env is not an error

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DESCOPE_MIG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy unprefixed environment names keep working.
	_ = v.BindEnv("auth0.token", "DESCOPE_MIG_AUTH0_TOKEN", "AUTH0_TOKEN")
	_ = v.BindEnv("auth0.tenant_id", "DESCOPE_MIG_AUTH0_TENANT_ID", "AUTH0_TENANT_ID")
	_ = v.BindEnv("descope.project_id", "DESCOPE_MIG_DESCOPE_PROJECT_ID", "DESCOPE_PROJECT_ID")
	_ = v.BindEnv("descope.management_key", "DESCOPE_MIG_DESCOPE_MANAGEMENT_KEY", "DESCOPE_MANAGEMENT_KEY")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("auth0.tenant_id", "")
	v.SetDefault("auth0.token", "")
	v.SetDefault("auth0.base_url", "")
	v.SetDefault("descope.project_id", "")
	v.SetDefault("descope.management_key", "")
	v.SetDefault("descope.base_url", "https://api.descope.com")
	v.SetDefault("migration.page_size", 20)
	v.SetDefault("migration.max_attempts", 4)
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "./data/migrator.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output_file", "./logs/migrator.log")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
}

// Validate checks that the required credential inputs are present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth0.TenantID) == "" && strings.TrimSpace(c.Auth0.BaseURL) == "" {
		return ErrAuth0TenantRequired
	}
	if strings.TrimSpace(c.Auth0.Token) == "" {
		return ErrAuth0TokenRequired
	}
	if strings.TrimSpace(c.Descope.ProjectID) == "" {
		return ErrDescopeProjectRequired
	}
	if strings.TrimSpace(c.Descope.ManagementKey) == "" {
		return ErrDescopeMgmtKeyRequired
	}
	if c.Database.Enabled {
		switch c.Database.Type {
		case "sqlite", "postgres", "postgresql", "sqlserver", "mssql":
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedDatabaseType, c.Database.Type)
		}
	}
	return nil
}
