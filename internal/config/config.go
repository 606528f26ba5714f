package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"pireport/internal/remote"
)

// Store backend selection. Memory keeps a JSONL snapshot next to the data
// path; sqlite and remote are the durable options.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRemote = "remote"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath string
	LogDir   string

	// SeedsDir holds optional YAML template overlays loaded at startup.
	SeedsDir    string
	SeedOverlay bool

	StoreBackend string
	SQLitePath   string
	SnapshotPath string
	Remote       remote.Config
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first: the server is
	// usually launched by a frontend with an arbitrary working directory.
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	timeoutSecs, _ := strconv.Atoi(getEnv("REMOTE_TIMEOUT_SECONDS", "30"))
	retryMillis, _ := strconv.Atoi(getEnv("REMOTE_RETRY_DELAY_MS", "500"))

	cfg := &AppConfig{
		DataPath:     dataPath,
		LogDir:       logDir,
		SeedsDir:     getEnv("SEEDS_DIR", filepath.Join(dataPath, "seeds")),
		SeedOverlay:  getEnvBool("SEED_OVERLAY", true),
		StoreBackend: getEnv("STORE_BACKEND", BackendSQLite),
		SQLitePath:   getEnv("STORE_SQLITE_PATH", filepath.Join(dataPath, "overrides.db")),
		SnapshotPath: getEnv("STORE_SNAPSHOT_PATH", filepath.Join(dataPath, "overrides.jsonl")),
		Remote: remote.Config{
			BaseURL:    getEnv("REMOTE_URL", ""),
			Token:      getEnv("REMOTE_TOKEN", ""),
			Namespace:  getEnv("REMOTE_NAMESPACE", "pireport"),
			UserID:     getEnv("REMOTE_USER_ID", ""),
			Timeout:    time.Duration(timeoutSecs) * time.Second,
			RetryDelay: time.Duration(retryMillis) * time.Millisecond,
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
