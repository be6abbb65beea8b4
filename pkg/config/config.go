package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL   = "https://restapi.mailplus.nl/integrationservice"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "spotler-go"
	DefaultLogLevel  = "info"
)

// Config holds the Spotler API credentials and client settings.
type Config struct {
	ConsumerKey    string        `mapstructure:"spotler_consumer_key" validate:"required"`
	ConsumerSecret string        `mapstructure:"spotler_consumer_secret" validate:"required"`
	BaseURL        string        `mapstructure:"spotler_base_url" validate:"required,url"`
	Timeout        time.Duration `mapstructure:"spotler_timeout" validate:"gt=0"`
	UserAgent      string        `mapstructure:"spotler_user_agent"`
	LogLevel       string        `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
}

var validate = validator.New()

// Load reads configuration from the environment, falling back to a .env file
// in the working directory when present.
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("spotler_base_url", DefaultBaseURL)
	v.SetDefault("spotler_timeout", DefaultTimeout)
	v.SetDefault("spotler_user_agent", DefaultUserAgent)
	v.SetDefault("log_level", DefaultLogLevel)

	for _, key := range []string{"spotler_consumer_key", "spotler_consumer_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}

	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	env := envName(fe.StructField())

	switch fe.Tag() {
	case "required":
		return env + " is required"
	case "url":
		return env + " must be an absolute URL"
	case "gt":
		return env + " must be positive"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", env, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", env, fe.Tag())
	}
}

func envName(field string) string {
	switch field {
	case "ConsumerKey":
		return "SPOTLER_CONSUMER_KEY"
	case "ConsumerSecret":
		return "SPOTLER_CONSUMER_SECRET"
	case "BaseURL":
		return "SPOTLER_BASE_URL"
	case "Timeout":
		return "SPOTLER_TIMEOUT"
	case "UserAgent":
		return "SPOTLER_USER_AGENT"
	case "LogLevel":
		return "LOG_LEVEL"
	default:
		return field
	}
}
