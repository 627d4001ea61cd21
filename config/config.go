package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataSource string `validate:"oneof=csv postgres"`
	CSVPath    string `validate:"required_if=DataSource csv"`

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresTable    string `validate:"required_if=DataSource postgres"`

	MaxRetries int `validate:"min=1"`

	HTTPAddr      string `validate:"required"`
	HistogramBins int    `validate:"min=1,max=200"`
	TableLimit    int    `validate:"min=0"`

	Debug bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataSource: strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		CSVPath:    getEnv("CSV_PATH", "data.csv"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "z3"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "listings_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTable:    getEnv("POSTGRES_TABLE", "listings"),

		MaxRetries: getEnvInt("MAX_RETRIES", 3),

		HTTPAddr:      getEnv("HTTP_ADDR", "127.0.0.1:8501"),
		HistogramBins: getEnvInt("HISTOGRAM_BINS", 20),
		TableLimit:    getEnvInt("TABLE_LIMIT", 0),

		Debug: getEnvBool("LOG_DEBUG", false),
	}
}

// Validate checks the configuration after flags have been applied.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
