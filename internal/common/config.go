package common

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Storage  StorageConfig
	Batch    BatchConfig
}

// DatabaseConfig holds the job-store configuration. The DSN selects the
// driver: a postgres:// URL uses pgx, anything else is treated as a SQLite
// path (":memory:" included).
type DatabaseConfig struct {
	DSN             string
	MaxConns        int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// StorageConfig holds the on-disk layout for uploads and generated documents.
type StorageConfig struct {
	Root         string
	TemplatesDir string
	TempDir      string
	OutputsDir   string
	PrintsDir    string
	PendingDir   string
	OfficeConfig string
}

// BatchConfig holds generation batch tuning.
type BatchConfig struct {
	Workers        int
	ZipOutputs     bool
	ContractPrefix string
}

// LoadConfig loads configuration from the environment, reading a .env file
// first when one is present in the working directory.
func LoadConfig() *Config {
	_ = godotenv.Load()

	root := getEnv("STORAGE_DIR", "./storage")
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", filepath.Join(root, "arbitral.db")),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8000"),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Root:         root,
			TemplatesDir: getEnv("TEMPLATES_DIR", filepath.Join(root, "templates")),
			TempDir:      getEnv("TEMP_DIR", filepath.Join(root, "temp")),
			OutputsDir:   getEnv("OUTPUTS_DIR", filepath.Join(root, "outputs")),
			PrintsDir:    getEnv("PRINTS_DIR", filepath.Join(root, "prints")),
			PendingDir:   getEnv("PENDING_DIR", filepath.Join(root, "pendencias")),
			OfficeConfig: getEnv("OFFICE_CONFIG", "config.json"),
		},
		Batch: BatchConfig{
			Workers:        getEnvAsInt("BATCH_WORKERS", 4),
			ZipOutputs:     getEnvAsBool("BATCH_ZIP_OUTPUTS", true),
			ContractPrefix: getEnv("OUTPUT_PREFIX", "INICIAL_ARBITRAL_"),
		},
	}
}

// SetupDirectories creates the storage layout, parents included.
func (c *Config) SetupDirectories() error {
	dirs := []string{
		c.Storage.Root,
		c.Storage.TemplatesDir,
		c.Storage.TempDir,
		c.Storage.OutputsDir,
		c.Storage.PrintsDir,
		c.Storage.PendingDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return WrapError(err, "create storage directory")
		}
	}
	return nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Batch.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "BATCH_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
