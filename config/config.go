package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string `mapstructure:"PORT"`
	StoreDriver    string `mapstructure:"STORE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	ProvidersFile  string `mapstructure:"PROVIDERS_FILE"`
	SinkWebhookURL string `mapstructure:"SINK_WEBHOOK_URL"`
	LinkTable      string `mapstructure:"LINK_TABLE"`

	RetryAttempts     int `mapstructure:"RETRY_ATTEMPTS"`
	RetryBaseDelayMs  int `mapstructure:"RETRY_BASE_DELAY_MS"`
	MaxBodyBytes      int `mapstructure:"MAX_BODY_BYTES"`
	DispatchRetryMins int `mapstructure:"DISPATCH_RETRY_MINS"`
}

func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond
}

func (c *Config) DispatchRetryDelay() time.Duration {
	return time.Duration(c.DispatchRetryMins) * time.Minute
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("STORE_DRIVER", "postgres")
	viper.SetDefault("PROVIDERS_FILE", "providers.yaml")
	viper.SetDefault("LINK_TABLE", "listings")
	viper.SetDefault("RETRY_ATTEMPTS", 3)
	viper.SetDefault("RETRY_BASE_DELAY_MS", 750)
	viper.SetDefault("MAX_BODY_BYTES", 1<<20)
	viper.SetDefault("DISPATCH_RETRY_MINS", 5)

	err := viper.ReadInConfig()
	if err != nil {
		// the .env file is optional when everything comes from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	return nil
}
