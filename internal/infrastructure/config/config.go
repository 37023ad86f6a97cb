package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Log       LogConfig
	Ozon      OzonConfig
	HTTP      HTTPConfig
	Retention RetentionConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds local store connection settings. The desktop build
// runs on sqlite; postgres stays selectable for shared-store deployments.
type DatabaseConfig struct {
	Driver string `validate:"oneof=sqlite postgres"`
	// Path is the sqlite database file; ":memory:" is accepted for tests.
	Path string

	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
	Output string
}

// OzonConfig holds remote platform API settings. ClientID doubles as the
// store identity every local row is scoped to.
type OzonConfig struct {
	BaseURL        string `validate:"required,url"`
	ClientID       string `validate:"required"`
	APIKey         string `validate:"required"`
	TimeoutSeconds int    `validate:"min=1"`
	PageLimit      int    `validate:"min=1,max=1000"`
	ChunkSize      int    `validate:"min=1,max=1000"`
	MaxPages       int    `validate:"min=1"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RetentionConfig holds run-log retention settings. Retention never touches
// the raw exchange archive.
type RetentionConfig struct {
	RunLogDays int `validate:"min=1"`
}

// DSN returns the postgres connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Timeout returns the remote call timeout
func (o *OzonConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// Load reads configuration from config.toml and SELLERDESK_* env overrides
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SELLERDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Path:            v.GetString("database.path"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Ozon: OzonConfig{
			BaseURL:        v.GetString("ozon.base_url"),
			ClientID:       v.GetString("ozon.client_id"),
			APIKey:         v.GetString("ozon.api_key"),
			TimeoutSeconds: v.GetInt("ozon.timeout_seconds"),
			PageLimit:      v.GetInt("ozon.page_limit"),
			ChunkSize:      v.GetInt("ozon.chunk_size"),
			MaxPages:       v.GetInt("ozon.max_pages"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Retention: RetentionConfig{
			RunLogDays: v.GetInt("retention.run_log_days"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sellerdesk")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8090")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "sellerdesk.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "sellerdesk")
	v.SetDefault("database.dbname", "sellerdesk")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.conn_max_idle_time", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("ozon.base_url", "https://api-seller.ozon.ru")
	v.SetDefault("ozon.timeout_seconds", 30)
	v.SetDefault("ozon.page_limit", 1000)
	v.SetDefault("ozon.chunk_size", 100)
	v.SetDefault("ozon.max_pages", 500)

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	v.SetDefault("retention.run_log_days", 30)
}
