package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := validBaseConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidServerEnv(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for invalid SERVER_ENV")
	}
	if !strings.Contains(err.Error(), "SERVER_ENV") {
		t.Errorf("expected error to mention SERVER_ENV, got: %v", err)
	}
}

func TestConfig_Validate_MissingPort(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing SERVER_PORT")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("expected error to mention SERVER_PORT, got: %v", err)
	}
}

func TestConfig_Validate_EmptyAllowedOrigins(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.AllowedOrigins = []string{}

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for empty CORS_ALLOWED_ORIGINS")
	}
	if !strings.Contains(err.Error(), "CORS_ALLOWED_ORIGINS") {
		t.Errorf("expected error to mention CORS_ALLOWED_ORIGINS, got: %v", err)
	}
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing DB_HOST")
	}
	if !strings.Contains(err.Error(), "DB_HOST") {
		t.Errorf("expected error to mention DB_HOST, got: %v", err)
	}
}

func TestConfig_Validate_MissingRedisAddr(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Redis.Addr = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing REDIS_ADDR")
	}
	if !strings.Contains(err.Error(), "REDIS_ADDR") {
		t.Errorf("expected error to mention REDIS_ADDR, got: %v", err)
	}
}

func TestConfig_Validate_InvalidJWTExpiration(t *testing.T) {
	cfg := validBaseConfig()
	cfg.JWT.ExpirationMins = 0

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for zero JWT_EXPIRATION_MINS")
	}
	if !strings.Contains(err.Error(), "JWT_EXPIRATION_MINS") {
		t.Errorf("expected error to mention JWT_EXPIRATION_MINS, got: %v", err)
	}
}

func TestConfig_Validate_ProductionRequiresJWTKeys(t *testing.T) {
	cfg := validProductionConfig()
	cfg.JWT.PrivateKeyPath = ""
	cfg.JWT.PublicKeyPath = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing JWT keys in production")
	}
	if !strings.Contains(err.Error(), "JWT_PRIVATE_KEY_PATH") {
		t.Errorf("expected error to mention JWT_PRIVATE_KEY_PATH, got: %v", err)
	}
	if !strings.Contains(err.Error(), "JWT_PUBLIC_KEY_PATH") {
		t.Errorf("expected error to mention JWT_PUBLIC_KEY_PATH, got: %v", err)
	}
}

func TestConfig_Validate_InvalidRateLimit(t *testing.T) {
	cfg := validBaseConfig()
	cfg.RateLimit.Requests = 0
	cfg.RateLimit.Window = 0

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for zero rate limit settings")
	}
	if !strings.Contains(err.Error(), "RATE_LIMIT_REQUESTS") {
		t.Errorf("expected error to mention RATE_LIMIT_REQUESTS, got: %v", err)
	}
	if !strings.Contains(err.Error(), "RATE_LIMIT_WINDOW") {
		t.Errorf("expected error to mention RATE_LIMIT_WINDOW, got: %v", err)
	}
}

func TestConfig_Validate_ProductionRequiresUpstreams(t *testing.T) {
	cfg := validProductionConfig()
	cfg.Discord.BotToken = ""
	cfg.GameData.BaseURL = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing upstream settings in production")
	}
	if !strings.Contains(err.Error(), "DISCORD_BOT_TOKEN") {
		t.Errorf("expected error to mention DISCORD_BOT_TOKEN, got: %v", err)
	}
	if !strings.Contains(err.Error(), "GAME_DATA_BASE_URL") {
		t.Errorf("expected error to mention GAME_DATA_BASE_URL, got: %v", err)
	}
}

func TestConfig_Validate_DevelopmentAllowsMissingBotToken(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Discord.BotToken = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no error in development without a bot token, got: %v", err)
	}
}

func TestDiscordConfig_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		cfg      DiscordConfig
		expected bool
	}{
		{"empty", DiscordConfig{}, false},
		{"token_set", DiscordConfig{BotToken: "bot-token"}, true},
		{"base_url_only", DiscordConfig{BaseURL: "http://localhost:8091"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsConfigured(); got != tt.expected {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           "",
			Env:            "invalid",
			AllowedOrigins: []string{},
		},
		Database: DatabaseConfig{
			Host: "",
		},
		JWT: JWTConfig{
			ExpirationMins: 0,
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Error("expected multiple validation errors")
	}

	errStr := err.Error()
	expectedFields := []string{"SERVER_PORT", "SERVER_ENV", "CORS_ALLOWED_ORIGINS", "DB_HOST", "REDIS_ADDR", "JWT_EXPIRATION_MINS", "RATE_LIMIT_REQUESTS"}
	for _, field := range expectedFields {
		if !strings.Contains(errStr, field) {
			t.Errorf("expected error to mention %s, got: %v", field, err)
		}
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Env: "development"}}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}

	cfg.Server.Env = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false in production")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Env: "production"}}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}

	cfg.Server.Env = "development"
	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false in development")
	}
}

// validBaseConfig returns a minimal valid configuration for testing
func validBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "raidledger",
			Database:  "main",
			User:      "root",
			Password:  "root",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		JWT: JWTConfig{
			PrivateKeyPath: "./keys/private.pem",
			PublicKeyPath:  "./keys/public.pem",
			ExpirationMins: 15,
			Issuer:         "raidledger.forgo.software",
		},
		RateLimit: RateLimitConfig{
			Requests: 120,
			Window:   time.Minute,
		},
		GameData: GameDataConfig{
			BaseURL: "http://localhost:8090",
			Timeout: 5 * time.Second,
		},
	}
}

// validProductionConfig is validBaseConfig with the extra settings
// production validation demands
func validProductionConfig() *Config {
	cfg := validBaseConfig()
	cfg.Server.Env = "production"
	cfg.Discord.BotToken = "bot-token"
	cfg.GameData.BaseURL = "https://catalog.example.com"
	return cfg
}
