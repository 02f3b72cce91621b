package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration loaded from the environment.
type Config struct {
	Port        string
	BaseURL     string
	MongoURI    string
	MongoDBName string
	JWTSecret   string
	TokenExpiry time.Duration
	OpenAIKey   string
	CacheDir    string
}

// LoadConfig reads .env (if present) and builds the Config.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	expiry := 24 * time.Hour
	if raw := os.Getenv("TOKEN_EXPIRY"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			expiry = parsed
		} else {
			logrus.WithError(err).Warnf("Invalid TOKEN_EXPIRY %q, using default", raw)
		}
	}

	port := getEnv("PORT", "8080")

	return &Config{
		Port:        port,
		BaseURL:     getEnv("BASE_URL", "http://localhost:"+port),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "studybuddy"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenExpiry: expiry,
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		CacheDir:    getEnv("CACHE_DIR", "./cache"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
