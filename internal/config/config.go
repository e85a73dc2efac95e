package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Upshop   UpshopConfig   `mapstructure:"upshop"`
	Import   ImportConfig   `mapstructure:"import"`
	Log      LogConfig      `mapstructure:"log"`
	Status   StatusConfig   `mapstructure:"status"`
}

// DatabaseConfig describes the SMS target store. Driver sqlserver is the
// production target; sqlite exists for local runs and tests.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Server   string `mapstructure:"server"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Path     string `mapstructure:"path"` // sqlite file path
	DSNRaw   string `mapstructure:"dsn"`  // overrides the assembled DSN
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.DSNRaw != "" {
		return c.DSNRaw
	}
	switch c.Driver {
	case "sqlite":
		return c.Path
	default:
		// Windows integrated auth unless explicit credentials are given,
		// matching how the SMS back office hosts run this tool.
		if c.User != "" {
			return fmt.Sprintf("server=%s;database=%s;user id=%s;password=%s",
				c.Server, c.Name, c.User, c.Password)
		}
		return fmt.Sprintf("server=%s;database=%s;trusted_connection=yes", c.Server, c.Name)
	}
}

// UpshopConfig holds credentials and tuning for the Upshop order API.
type UpshopConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	PollTimeout    time.Duration `mapstructure:"poll_timeout"`
}

type ImportConfig struct {
	StoreNumber int `mapstructure:"store_number"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	FileOnly   bool   `mapstructure:"file_only"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// StatusConfig controls the local read-only status page.
type StatusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Load reads configuration from file and environment.
// Parameters:
//   - configPath: explicit config file path; empty searches ./configs and ".".
//
// Returns:
//   - *Config: populated configuration.
//   - error: non-nil if reading or unmarshaling fails.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("database.driver", "sqlserver")
	v.SetDefault("database.server", "localhost")
	v.SetDefault("database.name", "STORESQL")
	v.SetDefault("database.path", "./data/smsimport.db")
	v.SetDefault("upshop.base_url", "")
	v.SetDefault("upshop.request_timeout", 90*time.Second)
	v.SetDefault("upshop.poll_interval", 5*time.Second)
	v.SetDefault("upshop.poll_timeout", 30*time.Minute)
	v.SetDefault("import.store_number", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "./Log/smsimport.log")
	v.SetDefault("log.file_only", false)
	v.SetDefault("log.max_size", 20)
	v.SetDefault("log.max_backups", 14)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", false)
	v.SetDefault("status.enabled", false)
	v.SetDefault("status.addr", "127.0.0.1:8318")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("upshop.base_url", "UPSHOP_BASE_URL")
	v.BindEnv("upshop.username", "UPSHOP_USERNAME")
	v.BindEnv("upshop.password", "UPSHOP_PASSWORD")
	v.BindEnv("database.dsn", "SMS_DSN")
	v.BindEnv("database.server", "SMS_SERVER")
	v.BindEnv("database.name", "SMS_DATABASE")
	v.BindEnv("import.store_number", "SMS_STORE_NUMBER")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the fields without which a run cannot start.
func (c *Config) Validate() error {
	if c.Upshop.BaseURL == "" {
		return fmt.Errorf("upshop.base_url is required")
	}
	if c.Upshop.Username == "" || c.Upshop.Password == "" {
		return fmt.Errorf("upshop credentials are required")
	}
	if c.Import.StoreNumber <= 0 {
		return fmt.Errorf("import.store_number must be positive")
	}
	return nil
}
