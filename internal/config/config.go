package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort        = "8080"
	defaultRedisAddr   = "localhost:6379"
	defaultJWTTTL      = "24h"
	defaultDebounce    = "250ms"
	defaultJWTSecret   = "change-me-jwt-secret"
	defaultGatewayURL  = "https://gateway.example.com/Merchant/Index.aspx"
	defaultGatewayTest = "1"
)

type GatewayConfig struct {
	MerchantLogin string
	Password1     string
	Password2     string
	BaseURL       string
	ResultURL     string
	SuccessURL    string
	IsTest        string
}

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string
	JWTTTL      time.Duration
	Debounce    time.Duration
	Gateway     GatewayConfig
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	cfg.RedisAddr = getEnv("REDIS_ADDR", defaultRedisAddr)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.Debounce, err = parseDurationEnv("AVAILABILITY_DEBOUNCE", defaultDebounce)
	if err != nil {
		return nil, err
	}

	cfg.Gateway = GatewayConfig{
		MerchantLogin: os.Getenv("GATEWAY_MERCHANT_LOGIN"),
		Password1:     os.Getenv("GATEWAY_PASSWORD1"),
		Password2:     os.Getenv("GATEWAY_PASSWORD2"),
		BaseURL:       getEnv("GATEWAY_BASE_URL", defaultGatewayURL),
		ResultURL:     os.Getenv("GATEWAY_RESULT_URL"),
		SuccessURL:    os.Getenv("GATEWAY_SUCCESS_URL"),
		IsTest:        getEnv("GATEWAY_IS_TEST", defaultGatewayTest),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.Debounce <= 0 {
		return fmt.Errorf("AVAILABILITY_DEBOUNCE must be > 0")
	}
	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
