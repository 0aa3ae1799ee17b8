package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the process settings. Values come from the environment, an
// optional .env file and an optional config.yaml, in that order of precedence.
type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`
	ServiceName     string        `mapstructure:"SERVICE_NAME" validate:"required"`
	ServiceVersion  string        `mapstructure:"SERVICE_VERSION" validate:"required"`
	Host            string        `mapstructure:"HOST" validate:"required"`
	Port            int           `mapstructure:"PORT" validate:"gte=1,lte=65535"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL" validate:"required"`
	LogLevel        string        `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	LokiURL         string        `mapstructure:"LOKI_URL" validate:"omitempty,url"`
	MetricsPort     int           `mapstructure:"METRICS_PORT" validate:"gte=0,lte=65535"`
	OTLPEndpoint    string        `mapstructure:"OTLP_ENDPOINT"`
	EnforceHTTPS    bool          `mapstructure:"ENFORCE_HTTPS"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var keys = []string{
	"APP_ENV",
	"SERVICE_NAME",
	"SERVICE_VERSION",
	"HOST",
	"PORT",
	"DATABASE_URL",
	"LOG_LEVEL",
	"LOKI_URL",
	"METRICS_PORT",
	"OTLP_ENDPOINT",
	"ENFORCE_HTTPS",
	"SHUTDOWN_TIMEOUT",
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	return FromViper(v)
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_NAME", "userprofiles")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 8000)
	v.SetDefault("DATABASE_URL", "sqlite://userprofiles.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_PORT", 9091)
	v.SetDefault("ENFORCE_HTTPS", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
}

// FromViper decodes and validates a Config from an already populated viper
// instance.
func FromViper(v *viper.Viper) (*Config, error) {
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	if s := v.GetString("SHUTDOWN_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)

		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}

		c.ShutdownTimeout = d
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &c, nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
