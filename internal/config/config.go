package config

import (
	"os"
	"strconv"
)

// Config centralizes runtime settings for the API and workers.
type Config struct {
	Port string

	AuthToken      string
	AllowedOrigins string

	DatabaseURL string

	GeminiAPIKey    string
	GeminiModel     string
	GeminiTimeoutMS int

	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	FetchMaxAttempts int
	FetchBaseWaitMS  int

	SceneCacheTTLSeconds int
	SceneCacheMaxEntries int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisStream   string
	RedisDLQ      string
	RedisGroup    string
	RedisConsumer string

	RateLimitRPS   float64
	RateLimitBurst int

	WorkerEnabled bool
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		AuthToken:      getEnv("API_AUTH_TOKEN", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiTimeoutMS: getEnvInt("GEMINI_TIMEOUT_MS", 30000),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "scripts"),

		FetchMaxAttempts: getEnvInt("FETCH_MAX_ATTEMPTS", 5),
		FetchBaseWaitMS:  getEnvInt("FETCH_BASE_WAIT_MS", 1000),

		SceneCacheTTLSeconds: getEnvInt("SCENE_CACHE_TTL_SECONDS", 900),
		SceneCacheMaxEntries: getEnvInt("SCENE_CACHE_MAX_ENTRIES", 2000),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisStream:   getEnv("REDIS_STREAM", "script_jobs"),
		RedisDLQ:      getEnv("REDIS_DLQ_STREAM", "script_jobs_dlq"),
		RedisGroup:    getEnv("REDIS_GROUP", "script_workers"),
		RedisConsumer: getEnv("REDIS_CONSUMER", "worker-1"),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),

		WorkerEnabled: getEnvBool("WORKER_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
