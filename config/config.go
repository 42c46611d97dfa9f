package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DateLayout is the fixed pattern review dates are written in.
const DateLayout = "2006-01-02"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ListingsPath string
	ReviewsPath  string
	CSVDelimiter rune

	ReviewCutoff       time.Time
	LocationSampleSize int
	SentimentWorkers   int

	ServerHost      string
	ServerPort      int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string

	ExportCSVDir string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int

	LogLevel string

	cutoffErr error
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cutoff, cutoffErr := time.Parse(DateLayout, getEnv("REVIEW_CUTOFF", "2015-01-01"))

	return &Config{
		ListingsPath: getEnv("LISTINGS_PATH", "datasets/Listings_boston.csv"),
		ReviewsPath:  getEnv("REVIEWS_PATH", "datasets/Reviews_boston.csv"),
		CSVDelimiter: getEnvRune("CSV_DELIMITER", ','),

		ReviewCutoff:       cutoff,
		LocationSampleSize: getEnvInt("LOCATION_SAMPLE_SIZE", 10),
		SentimentWorkers:   getEnvInt("SENTIMENT_WORKERS", 4),

		ServerHost:      getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:      getEnvInt("SERVER_PORT", 5000),
		ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		CorsOrigins:     getEnvSlice("SERVER_CORS_ORIGINS", []string{"*"}),

		ExportCSVDir: getEnv("EXPORT_CSV_DIR", ""),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "analytics"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "analytics"),
		PostgresDB:       getEnv("POSTGRES_DB", "rental_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		cutoffErr: cutoffErr,
	}
}

// Validate reports the first setting that would make the pipeline meaningless.
func (c *Config) Validate() error {
	if c.cutoffErr != nil {
		return fmt.Errorf("config: REVIEW_CUTOFF must use the yyyy-MM-dd layout: %w", c.cutoffErr)
	}
	if c.ListingsPath == "" || c.ReviewsPath == "" {
		return fmt.Errorf("config: LISTINGS_PATH and REVIEWS_PATH are required")
	}
	if c.LocationSampleSize <= 0 {
		return fmt.Errorf("config: LOCATION_SAMPLE_SIZE must be positive, got %d", c.LocationSampleSize)
	}
	if c.SentimentWorkers <= 0 {
		return fmt.Errorf("config: SENTIMENT_WORKERS must be positive, got %d", c.SentimentWorkers)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("config: MAX_RETRIES must be positive, got %d", c.MaxRetries)
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}

func getEnvRune(key string, fallback rune) rune {
	val := os.Getenv(key)
	if val == "\\t" {
		return '\t'
	}
	if r := []rune(val); len(r) == 1 {
		return r[0]
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
