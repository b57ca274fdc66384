package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// DataDir is the directory holding the environment CSVs and the growth
	// workbook. Relative paths resolve against the working directory.
	DataDir string

	// ReloadInterval controls the optional periodic dataset reload.
	// Zero disables it, keeping the load-once-per-process semantics.
	ReloadInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	cfg.DataDir = getenvDefault("DATA_DIR", "data")
	cfg.Port = getenvDefault("PORT", "8080")

	reloadStr := getenvDefault("RELOAD_INTERVAL", "0")
	reload, err := time.ParseDuration(reloadStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RELOAD_INTERVAL: %w", err)
	}
	if reload < 0 {
		return nil, fmt.Errorf("RELOAD_INTERVAL must not be negative")
	}
	cfg.ReloadInterval = reload

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
