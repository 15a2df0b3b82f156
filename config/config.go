package config

import (
	"os"

	"github.com/joho/godotenv"

	"projecthub/backend/logging"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port          string
	MongoURI      string
	CassandraHost string
	JWTSecret     string
	SMTPHost      string
	SMTPPort      string
	SMTPFrom      string
	SMTPPassword  string
	AllowedOrigin string
}

// Load reads the .env file if present and falls back to defaults for
// anything not set. A missing .env is not an error.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logging.Logger.Debugf("No .env file loaded: %v", err)
	}

	return &Config{
		Port:          getEnv("PORT", "8000"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		CassandraHost: getEnv("CASS_DB", "127.0.0.1"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPFrom:      getEnv("SMTP_FROM", ""),
		SMTPPassword:  getEnv("EMAIL_PASSWORD", ""),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
