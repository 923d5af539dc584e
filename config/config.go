package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	Port string

	JWTSecret            string
	OperatorEmail        string
	OperatorPasswordHash string

	GeminiAPIKey string
	GeminiModel  string

	WarehouseDriver          string
	GCPProjectID             string
	BigQueryDataset          string
	GoogleServiceAccountJSON string
	DatabaseURL              string

	LookbackWeeks    int
	ChatHistoryLimit int
	LogLevel         string
}

// Warehouse drivers.
const (
	DriverBigQuery = "bigquery"
	DriverPostgres = "postgres"
)

// Load reads the server configuration from the environment. It returns an error
// naming every required key that is missing.
func Load() (Config, error) {
	return load(true)
}

// LoadForCLI is Load without the operator login keys, for command-line reports.
func LoadForCLI() (Config, error) {
	return load(false)
}

func load(requireAuth bool) (Config, error) {
	cfg := Config{
		Port:                     getEnv("PORT", "3000"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		OperatorEmail:            os.Getenv("OPERATOR_EMAIL"),
		OperatorPasswordHash:     os.Getenv("OPERATOR_PASSWORD_HASH"),
		GeminiAPIKey:             os.Getenv("GEMINI_API_KEY"),
		GeminiModel:              getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		WarehouseDriver:          strings.ToLower(getEnv("WAREHOUSE_DRIVER", DriverBigQuery)),
		GCPProjectID:             os.Getenv("GCP_PROJECT_ID"),
		BigQueryDataset:          getEnv("BQ_DATASET", "demo"),
		GoogleServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.LookbackWeeks, err = getEnvInt("LOOKBACK_WEEKS", 4); err != nil {
		return cfg, err
	}
	if cfg.ChatHistoryLimit, err = getEnvInt("CHAT_HISTORY_LIMIT", 50); err != nil {
		return cfg, err
	}

	var missing []string
	if requireAuth {
		if cfg.JWTSecret == "" {
			missing = append(missing, "JWT_SECRET")
		}
		if cfg.OperatorEmail == "" {
			missing = append(missing, "OPERATOR_EMAIL")
		}
		if cfg.OperatorPasswordHash == "" {
			missing = append(missing, "OPERATOR_PASSWORD_HASH")
		}
	}
	switch cfg.WarehouseDriver {
	case DriverBigQuery:
		if cfg.GCPProjectID == "" {
			missing = append(missing, "GCP_PROJECT_ID")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		return cfg, fmt.Errorf("unsupported WAREHOUSE_DRIVER %q", cfg.WarehouseDriver)
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
