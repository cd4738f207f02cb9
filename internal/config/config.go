// Package config loads runtime configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the API process reads at startup.
type Config struct {
	Port string
	DSN  string

	JWTSecret     string
	UserTokenTTL  time.Duration
	AdminTokenTTL time.Duration

	AdminUsername string
	AdminPassword string
	AdminEmail    string

	// SellerEmailDomains restricts seller signups to campus addresses.
	SellerEmailDomains []string

	UploadDir   string
	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL string

	GroqAPIKey       string
	OpenRouterAPIKey string
	GeminiAPIKey     string
	LLMTimeout       time.Duration

	MigrateOnStart bool

	RateLimit RateLimitConfig
}

// Load reads the environment. JWT_SECRET is the only required variable;
// everything else has a development default.
func Load() Config {
	return Config{
		Port: getenv("APP_PORT", "8080"),
		DSN:  getenv("DB_DSN", "root:root@tcp(127.0.0.1:3306)/campusmart?parseTime=true"),

		JWTSecret:     must("JWT_SECRET"),
		UserTokenTTL:  parseDur(getenv("USER_TOKEN_TTL", "168h"), 7*24*time.Hour),
		AdminTokenTTL: parseDur(getenv("ADMIN_TOKEN_TTL", "24h"), 24*time.Hour),

		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@cuet.ac.bd"),

		SellerEmailDomains: splitList(getenv("SELLER_EMAIL_DOMAINS", "student.cuet.ac.bd,cuet.ac.bd")),

		UploadDir:   getenv("UPLOAD_DIR", "./uploads"),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       atoi(getenv("REDIS_DB", "0")),

		RabbitMQURL: getenv("RABBITMQ_URL", ""),

		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		LLMTimeout:       parseDur(getenv("LLM_TIMEOUT", "5s"), 5*time.Second),

		MigrateOnStart: getenv("MIGRATE_ON_START", "true") == "true",

		RateLimit: LoadRateLimitConfig(),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
