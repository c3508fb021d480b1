package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port       string
	Env        string
	APIBaseURL string
	APITimeout time.Duration

	SessionSecret       string
	SessionTTL          time.Duration
	SessionCookie       string
	SessionCookieSecure bool
	SessionStore        string

	MongoURI string
	DBName   string
	RedisURL string

	LogLevel  string
	LogFormat string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the configuration without touching .env files.
func FromEnv() Config {
	return Config{
		Port:       getEnvOrDefault("PORT", "8080"),
		Env:        getEnvOrDefault("APP_ENV", "development"),
		APIBaseURL: getEnvOrDefault("API_BASE_URL", "https://api.bargainus.kr"),
		APITimeout: getDurationEnv("API_TIMEOUT", 10, time.Second),

		SessionSecret:       getEnvOrDefault("SESSION_SECRET", ""),
		SessionTTL:          getDurationEnv("SESSION_TTL", 24, time.Hour),
		SessionCookie:       getEnvOrDefault("SESSION_COOKIE", "bargain_session"),
		SessionCookieSecure: getBoolEnv("SESSION_COOKIE_SECURE", false),
		SessionStore:        getEnvOrDefault("SESSION_STORE", "memory"),

		MongoURI: getEnvOrDefault("MONGO_URI", ""),
		DBName:   getEnvOrDefault("DB_NAME", "bargain"),
		RedisURL: getEnvOrDefault("REDIS_URL", ""),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "console"),
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}
