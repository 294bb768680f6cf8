package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	AI       AIConfig       `mapstructure:"ai"`
	Funnel   FunnelConfig   `mapstructure:"funnel"`
	Stocking StockingConfig `mapstructure:"stocking"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type JWTConfig struct {
	Secret   string `mapstructure:"secret"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

// AIConfig points at an OpenAI-compatible chat completion endpoint.
type AIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// FunnelConfig sizes the question pools assigned per phase.
type FunnelConfig struct {
	GeneralCount      int `mapstructure:"general_count"`
	SpecificPerBranch int `mapstructure:"specific_per_branch"`
	ConfirmationCount int `mapstructure:"confirmation_count"`
}

// StockingConfig bounds the question generation adapter.
type StockingConfig struct {
	BatchSize      int `mapstructure:"batch_size"`
	MaxAttempts    int `mapstructure:"max_attempts"`
	BackoffSeconds int `mapstructure:"backoff_seconds"`
	DefaultTarget  int `mapstructure:"default_target"`
}

type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "careergenius")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("jwt.secret", "super-secret-key-change-me")
	v.SetDefault("jwt.ttl_hours", 24)

	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout_seconds", 60)

	v.SetDefault("funnel.general_count", 10)
	v.SetDefault("funnel.specific_per_branch", 5)
	v.SetDefault("funnel.confirmation_count", 5)

	v.SetDefault("stocking.batch_size", 10)
	v.SetDefault("stocking.max_attempts", 5)
	v.SetDefault("stocking.backoff_seconds", 2)
	v.SetDefault("stocking.default_target", 30)

	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 7)
	v.SetDefault("logging.compress", true)
}

// Load reads config.yaml (optional), environment variables prefixed with
// CAREERGENIUS, and defaults, and keeps watching the file for changes.
func Load(log *zap.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CAREERGENIUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("configuration file changed, reloading", zap.String("file", e.Name))
		if err := v.Unmarshal(cfg); err != nil {
			log.Error("error reloading configuration", zap.Error(err))
		}
	})

	return cfg, nil
}
