package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the environment-driven settings of the server.
type Config struct {
	Port            string
	Env             string
	MongoURI        string
	MongoDatabase   string
	PostgresConnStr string
	JWTSecret       string
	ClientURL       string
	GoogleClientID  string
	UploadDir       string
	SMTPHost        string
	SMTPPort        string
	SMTPFrom        string
	SMTPPassword    string
}

// Load reads the .env file when present and builds the config from the
// environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "artfolio"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		JWTSecret:       getEnv("JWT_SECRET", "supersecretjwtkey"),
		ClientURL:       getEnv("CLIENT_URL", "http://localhost:3000"),
		GoogleClientID:  getEnv("GOOGLE_CLIENT_ID", ""),
		UploadDir:       getEnv("UPLOAD_DIR", "./public/uploads"),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPFrom:        getEnv("SMTP_FROM", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
