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
	AppName     string
	AppEnv      string
	AppPort     string
	DatabaseURL string
	RedisURL    string
	NATSURL     string
	NATSSubject string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration

	DashboardCacheTTL time.Duration

	ActivityWindow       time.Duration
	ActivityRecentWindow time.Duration
	ActivityDefaultLimit int

	LoginRateLimit int
	AllowOrigins   []string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TEAMBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Teamboard API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.url", "sqlite://teamboard.db")
	v.SetDefault("nats.subject", "teamboard.activity")
	v.SetDefault("jwt.issuer", "teamboard-api")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("dashboard.cache_ttl", "0s")
	v.SetDefault("activity.window_days", 30)
	v.SetDefault("activity.recent_window", "24h")
	v.SetDefault("activity.default_limit", 10)
	v.SetDefault("login.rate_limit", 10)
	v.SetDefault("cors.allow_origins", "*")

	jwtTTL, err := parseDuration(v, "jwt.ttl")
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseDuration(v, "dashboard.cache_ttl")
	if err != nil {
		return Config{}, err
	}
	recent, err := parseDuration(v, "activity.recent_window")
	if err != nil {
		return Config{}, err
	}

	windowDays := v.GetInt("activity.window_days")
	if windowDays <= 0 {
		return Config{}, fmt.Errorf("activity window must be positive, got %d days", windowDays)
	}
	if recent <= 0 {
		return Config{}, fmt.Errorf("activity recent window must be positive")
	}
	if cacheTTL < 0 {
		return Config{}, fmt.Errorf("dashboard cache ttl must not be negative")
	}

	limit := v.GetInt("activity.default_limit")
	if limit < 0 {
		return Config{}, fmt.Errorf("activity default limit must not be negative")
	}

	cfg := Config{
		AppName:              v.GetString("app.name"),
		AppEnv:               v.GetString("app.env"),
		AppPort:              v.GetString("app.port"),
		DatabaseURL:          strings.TrimSpace(v.GetString("database.url")),
		RedisURL:             strings.TrimSpace(v.GetString("redis.url")),
		NATSURL:              strings.TrimSpace(v.GetString("nats.url")),
		NATSSubject:          strings.TrimSpace(v.GetString("nats.subject")),
		JWTSecret:            v.GetString("jwt.secret"),
		JWTIssuer:            v.GetString("jwt.issuer"),
		JWTTTL:               jwtTTL,
		DashboardCacheTTL:    cacheTTL,
		ActivityWindow:       time.Duration(windowDays) * 24 * time.Hour,
		ActivityRecentWindow: recent,
		ActivityDefaultLimit: limit,
		LoginRateLimit:       v.GetInt("login.rate_limit"),
		AllowOrigins:         splitList(v.GetString("cors.allow_origins")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("jwt ttl must be positive")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
