package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	JWTExpiry         time.Duration
	GroqAPIKey        string
	GroqBaseURL       string
	VisionModel       string
	ReasoningModel    string
	AIRequestTimeout  time.Duration
	MaxUploadMB       int
	DashboardCacheTTL time.Duration
	OTPTTL            time.Duration
	MailProvider      string
	SendgridAPIKey    string
	MailFromName      string
	MailFromAddress   string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// AIConfigured reports whether a remote-model credential is available.
// An absent key is a recognized degraded mode, not a startup error: the
// grading pipeline keeps answering with sentinel results.
func (c Config) AIConfigured() bool {
	return strings.TrimSpace(c.GroqAPIKey) != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CLASSBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Classboard API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("ai.vision_model", "meta-llama/llama-4-scout-17b-16e-instruct")
	v.SetDefault("ai.reasoning_model", "meta-llama/llama-4-maverick-17b-128e-instruct")
	v.SetDefault("ai.request_timeout", "90s")
	v.SetDefault("upload.max_mb", 5)
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("otp.ttl", "10m")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("mail.provider", "log")
	v.SetDefault("mail.from_name", "Classboard")
	v.SetDefault("mail.from_address", "no-reply@classboard.local")

	cacheTTL, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	otpTTL, err := time.ParseDuration(v.GetString("otp.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid otp ttl: %w", err)
	}

	jwtExpiry, err := time.ParseDuration(v.GetString("jwt.expiry"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt expiry: %w", err)
	}

	aiTimeout, err := time.ParseDuration(v.GetString("ai.request_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai request timeout: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		JWTExpiry:         jwtExpiry,
		GroqAPIKey:        v.GetString("groq.api_key"),
		GroqBaseURL:       v.GetString("groq.base_url"),
		VisionModel:       v.GetString("ai.vision_model"),
		ReasoningModel:    v.GetString("ai.reasoning_model"),
		AIRequestTimeout:  aiTimeout,
		MaxUploadMB:       v.GetInt("upload.max_mb"),
		DashboardCacheTTL: cacheTTL,
		OTPTTL:            otpTTL,
		MailProvider:      strings.ToLower(v.GetString("mail.provider")),
		SendgridAPIKey:    v.GetString("sendgrid.api_key"),
		MailFromName:      v.GetString("mail.from_name"),
		MailFromAddress:   v.GetString("mail.from_address"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 5
	}

	return cfg, nil
}
