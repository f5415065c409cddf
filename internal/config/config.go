package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBUrl      string
	DBMaxConns int32
	DBMinConns int32
	RedisURL   string
	JWTSecret  string
	AppEnv     string
	BaseURL    string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Port:       getEnv("PORT", "8080"),
		DBUrl:      getEnv("DB_URL", ""),
		DBMaxConns: getEnvInt32("DB_MAX_CONNS", 10),
		DBMinConns: getEnvInt32("DB_MIN_CONNS", 2),
		RedisURL:   getEnv("REDIS_URL", ""),
		JWTSecret:  jwtSecret,
		AppEnv:     normalizeEnv(getEnv("APP_ENV", "production")),
		BaseURL:    getEnv("BASE_URL", "http://localhost:8080"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 32)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return int32(parsed)
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
