package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every runtime setting. It is loaded once in main and passed
// explicitly to the layers that need it; nothing reads the environment after Load.
type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	DatabaseURL string

	JWTSecret []byte
	TokenTTL  time.Duration

	UploadDir    string
	ResetCodeTTL time.Duration
}

// Load reads configuration from the environment, with configs/.env as an
// optional local override.
func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load("configs/.env")

	cfg := &Config{
		AppEnv:       getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		TokenTTL:     24 * time.Hour,
		ResetCodeTTL: 15 * time.Minute,
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = buildDSN()
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:5173")
	cfg.AllowedOrigins = splitCSV(origins)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if cfg.AppEnv == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		secret = "default_super_secret_key" // development fallback only
	}
	cfg.JWTSecret = []byte(secret)

	return cfg, nil
}

// buildDSN assembles a postgres DSN from the discrete DB_* variables.
func buildDSN() string {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	name := getEnv("DB_NAME", "postgres")
	sslMode := getEnv("DB_SSLMODE", "disable")
	return "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
