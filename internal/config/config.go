package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	VTEXAppKey         string
	VTEXAppToken       string
	VTEXMainAccount    string
	VTEXPlatformDomain string
	VTEXTimeoutSeconds int

	MaxWorkers    int
	DefaultSKU    string
	MaxRecentSKUs int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		VTEXAppKey:         getEnv("VTEX_APP_KEY", ""),
		VTEXAppToken:       getEnv("VTEX_APP_TOKEN", ""),
		VTEXMainAccount:    getEnv("VTEX_MAIN_ACCOUNT", ""),
		VTEXPlatformDomain: getEnv("VTEX_PLATFORM_DOMAIN", "vtexcommercestable.com.br"),
		VTEXTimeoutSeconds: getEnvInt("VTEX_TIMEOUT_SECONDS", 10),

		MaxWorkers:    getEnvInt("MAX_WORKERS", 20),
		DefaultSKU:    getEnv("DEFAULT_SKU", ""),
		MaxRecentSKUs: getEnvInt("MAX_RECENT_SKUS", 5),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// RequireVTEX checks the variables every API call needs.
func (c Config) RequireVTEX() error {
	if err := c.Require("VTEX_APP_KEY", c.VTEXAppKey); err != nil {
		return err
	}
	if err := c.Require("VTEX_APP_TOKEN", c.VTEXAppToken); err != nil {
		return err
	}
	return c.Require("VTEX_MAIN_ACCOUNT", c.VTEXMainAccount)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
