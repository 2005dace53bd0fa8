package config

import (
	"fmt"
	"log"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          string `env:"PORT" env-default:"8080"`
	SessionSecret string `env:"SESSION_SECRET" env-default:"secret_key_change_me"`
	DatabaseURL   string `env:"DATABASE_URL" env-default:"host=localhost user=postgres password=postgres dbname=divelink port=5432 sslmode=disable"`
	SiteURL       string `env:"SITE_URL" env-default:"http://localhost:8080"`

	SMTP  SMTP
	MinIO MinIO
}

// SMTP is optional; mail sending is disabled when any field is empty.
type SMTP struct {
	Host string `env:"SMTP_HOST"`
	Port string `env:"SMTP_PORT"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
	From string `env:"SMTP_FROM"`
}

type MinIO struct {
	Endpoint string `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	User     string `env:"MINIO_USER" env-default:"minioadmin"`
	Pass     string `env:"MINIO_PASSWORD" env-default:"minioadmin"`
	Bucket   string `env:"MINIO_BUCKET" env-default:"divelink"`
	UseSSL   bool   `env:"MINIO_USE_SSL" env-default:"false"`
}

func Load() (*Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	conf := &Config{}
	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, fmt.Errorf("cleanenv.ReadEnv: %w", err)
	}
	return conf, nil
}
