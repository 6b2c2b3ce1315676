package config

import (
	"fmt"

	"github.com/go-playground/validator"
	"github.com/spf13/viper"
)

var Validate *validator.Validate

type Config struct {
	ServerPort     int    `mapstructure:"SERVER_PORT"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	MailgunAPIKey  string `mapstructure:"MAILGUN_API_KEY"`
	MailgunDomain  string `mapstructure:"MAILGUN_DOMAIN"`
	MailgunAPIBase string `mapstructure:"MAILGUN_API_BASE"`
	MailFrom       string `mapstructure:"MAIL_FROM"`
}

func Load() (*Config, error) {
	viper.SetDefault("SERVER_PORT", 8000)
	viper.SetDefault("DATABASE_URL", "nykka.db")

	viper.SetEnvPrefix("NYKKA")
	viper.AutomaticEnv()

	viper.BindEnv("MAILGUN_API_KEY")
	viper.BindEnv("MAILGUN_DOMAIN")
	viper.BindEnv("MAILGUN_API_BASE")
	viper.BindEnv("MAIL_FROM")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/nykka/")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Validate = validator.New()

	return &cfg, nil
}

// MailEnabled reports whether outgoing mail is configured.
func (cfg *Config) MailEnabled() bool {
	return cfg.MailgunAPIKey != "" && cfg.MailgunDomain != ""
}
