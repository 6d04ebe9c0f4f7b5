package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	JWTSecret         string
	SessionTTLDays    int
	SessionCookieName string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	JobCacheTTLSec int

	AllowedOrigins []string

	TracingEnabled bool
	OTLPEndpoint   string

	WorkerPollMs      int
	WorkerConcurrency int
	TaskLockTTLSec    int
}

func Load() Config {
	// .env is a dev convenience, ignore when absent
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		DBURL: buildDBURL(),

		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		SessionTTLDays:    getEnvInt("SESSION_TTL_DAYS", 7),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "token"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		JobCacheTTLSec: getEnvInt("JOB_CACHE_TTL_SEC", 60),

		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),

		TracingEnabled: getEnv("TRACING_ENABLED", "false") == "true",
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),

		WorkerPollMs:      getEnvInt("WORKER_POLL_MS", 500),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 4),
		TaskLockTTLSec:    getEnvInt("TASK_LOCK_TTL_SEC", 60),
	}
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLDays) * 24 * time.Hour
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "jobhub")
	pass := getEnv("DB_PASSWORD", "jobhub")
	name := getEnv("DB_NAME", "jobhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
