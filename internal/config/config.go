package config

import (
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/velikanov/storefront/internal/models"
)

type Config struct {
	APP_ADDR  string
	SITE_URL  string
	LOG_LEVEL string

	DB_DRIVER   string
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string
	SQLITE_PATH string

	AUTH_SECRET      string
	AUTH_COOKIE_NAME string
	CART_COOKIE_NAME string

	IMAGE_DIR string

	KAFKA_ADDRESS string
	ES_URL        string
	ES_USER       string
	ES_PASSWORD   string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		APP_ADDR:  getenv("APP_ADDR", ":8080"),
		SITE_URL:  os.Getenv("SITE_URL"),
		LOG_LEVEL: getenv("LOG_LEVEL", "info"),

		DB_DRIVER:   getenv("DB_DRIVER", "sqlite"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),
		SQLITE_PATH: getenv("SQLITE_PATH", "ecommerce.db"),

		AUTH_SECRET:      os.Getenv("AUTH_SECRET"),
		AUTH_COOKIE_NAME: getenv("AUTH_COOKIE_NAME", "session"),
		CART_COOKIE_NAME: getenv("CART_COOKIE_NAME", "cart"),

		IMAGE_DIR: getenv("IMAGE_DIR", "static/images"),

		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		ES_URL:        os.Getenv("ES_URL"),
		ES_USER:       os.Getenv("ES_USER"),
		ES_PASSWORD:   os.Getenv("ES_PASSWORD"),
	}

	if config.AUTH_SECRET == "" {
		return nil, fmt.Errorf("AUTH_SECRET must be set")
	}

	return config, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the configured database and migrates the storefront tables.
// sqlite is the default, postgres is selected with DB_DRIVER=postgres.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.DB_DRIVER {
	case "postgres":
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
		)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		db, err = gorm.Open(sqlite.Open(cfg.SQLITE_PATH), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.Option{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}
	return db, nil
}
