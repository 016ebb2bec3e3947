package config

import (
	"os"
	"strings"
)

type Config struct {
	MongoURI  string
	Database  string
	RedisAddr string
	HTTPPort  string

	JWTSecret        string
	TokenExpiryMin   int
	CORSOrigins      []string
	AllowAdminSignup bool

	AI     *AIConfig
	Speech *SpeechConfig

	ClareAPIURL string
	ClareAPIKey string
	ClarkAPIURL string
	ClarkAPIKey string
}

func Load() *Config {
	return &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database:  getEnv("MONGO_DATABASE", "coachai"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:  getEnv("HTTP_PORT", "8080"),

		JWTSecret:        getEnv("JWT_SECRET_KEY", "dev-secret-change-me"),
		TokenExpiryMin:   30,
		CORSOrigins:      splitOrigins(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		AllowAdminSignup: os.Getenv("ALLOW_ADMIN_SIGNUP") == "true",

		AI:     DefaultAIConfig(),
		Speech: DefaultSpeechConfig(),

		ClareAPIURL: getEnv("CLARE_API_URL", "https://clare-guidelines-app-bqd0cggnf4a6gnfd.uksouth-01.azurewebsites.net"),
		ClareAPIKey: os.Getenv("CLARE_API_KEY"),
		ClarkAPIURL: getEnv("CLARK_API_URL", "https://clark-medical-app-hwawcvckdrfngnbg.uksouth-01.azurewebsites.net"),
		ClarkAPIKey: os.Getenv("CLARK_API_KEY"),
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
