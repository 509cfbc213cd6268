package infra

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"modulos/pricing/internal/pricing"
)

// Config holds application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// JWT session configuration
	JWT JWTConfig

	// Password gate configuration
	Auth AuthConfig

	// Pricing engine configuration
	Pricing PricingConfig

	// CORS configuration
	CORS CORSConfig

	// Logging configuration
	LogLevel string
}

type ServerConfig struct {
	Addr string
	Port string
}

type JWTConfig struct {
	Secret     string
	Expiration int // in seconds
}

type AuthConfig struct {
	// Exactly one of these is normally set; the hash wins when both are.
	Password     string
	PasswordHash string

	MaxAttempts    int
	LockoutSeconds int
	RatePerMinute  int
	SweepSeconds   int
}

type PricingConfig struct {
	Strict        bool
	MaxApps       int
	SurchargeRate decimal.Decimal
	TiersFile     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LoadConfig loads configuration using viper with support for:
// - Environment variables
// - .env files
// - Default values
// Fails fast on missing required configs
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")

	// Keys are the lower-cased env names so .env entries and env vars land on the same key
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	surcharge, err := decimal.NewFromString(strings.TrimSpace(v.GetString("pricing_surcharge_rate")))
	if err != nil {
		return nil, fmt.Errorf("invalid PRICING_SURCHARGE_RATE: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Addr: v.GetString("server_addr"),
			Port: v.GetString("server_port"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt_secret"),
			Expiration: v.GetInt("jwt_expiration"),
		},
		Auth: AuthConfig{
			Password:       v.GetString("auth_password"),
			PasswordHash:   v.GetString("auth_password_hash"),
			MaxAttempts:    v.GetInt("auth_max_attempts"),
			LockoutSeconds: v.GetInt("auth_lockout_seconds"),
			RatePerMinute:  v.GetInt("auth_rate_per_minute"),
			SweepSeconds:   v.GetInt("auth_sweep_seconds"),
		},
		Pricing: PricingConfig{
			Strict:        v.GetBool("pricing_strict"),
			MaxApps:       v.GetInt("pricing_max_apps"),
			SurchargeRate: surcharge,
			TiersFile:     v.GetString("pricing_tiers_file"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		},
		LogLevel: strings.ToLower(v.GetString("log_level")),
	}

	// Validate required configs (fail fast)
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server_addr", "0.0.0.0")
	v.SetDefault("server_port", "8080")

	// JWT defaults
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiration", 3600) // 1 hour

	// Auth defaults
	v.SetDefault("auth_password", "")
	v.SetDefault("auth_password_hash", "")
	v.SetDefault("auth_max_attempts", 5)
	v.SetDefault("auth_lockout_seconds", 300)
	v.SetDefault("auth_rate_per_minute", 10)
	v.SetDefault("auth_sweep_seconds", 60)

	// Pricing defaults
	v.SetDefault("pricing_strict", false)
	v.SetDefault("pricing_max_apps", 2000)
	v.SetDefault("pricing_surcharge_rate", "0.30")
	v.SetDefault("pricing_tiers_file", "")

	v.SetDefault("cors_allowed_origins", "http://localhost:3000,http://localhost:5173")

	// Logging defaults
	v.SetDefault("log_level", "info")
}

// splitList parses "a, b,c" into its non-empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateConfig(config *Config) error {
	var missing []string

	// Required: JWT secret (always required for security)
	if config.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	// Required: something to check the gate password against
	if config.Auth.Password == "" && config.Auth.PasswordHash == "" {
		missing = append(missing, "AUTH_PASSWORD or AUTH_PASSWORD_HASH")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	var invalid []string
	if config.JWT.Expiration < 1 {
		invalid = append(invalid, "JWT_EXPIRATION must be at least 1")
	}
	if config.Auth.MaxAttempts < 1 {
		invalid = append(invalid, "AUTH_MAX_ATTEMPTS must be at least 1")
	}
	if config.Auth.LockoutSeconds < 0 {
		invalid = append(invalid, "AUTH_LOCKOUT_SECONDS must not be negative")
	}
	if config.Auth.RatePerMinute < 1 {
		invalid = append(invalid, "AUTH_RATE_PER_MINUTE must be at least 1")
	}
	if config.Auth.SweepSeconds < 1 {
		invalid = append(invalid, "AUTH_SWEEP_SECONDS must be at least 1")
	}
	if config.Pricing.MaxApps < 1 || config.Pricing.MaxApps > pricing.MaxAppsLimit {
		invalid = append(invalid, fmt.Sprintf("PRICING_MAX_APPS must be between 1 and %d", pricing.MaxAppsLimit))
	}
	if config.Pricing.SurchargeRate.IsNegative() {
		invalid = append(invalid, "PRICING_SURCHARGE_RATE must not be negative")
	}
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "LOG_LEVEL must be one of debug, info, warn, error")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, "; "))
	}

	return nil
}
