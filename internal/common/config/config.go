package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port           string
	Environment    string
	ReadTimeout    int
	WriteTimeout   int
	DBPath         string
	MigrationsPath string
	StorageRoot    string
	FloorCount     int
	LogLevel       string
	CORSOrigins    []string
	OpenAPIPath    string
	SessionIdleTTL int // минуты; 0 отключает очистку
	SweepInterval  int // минуты
}

// Load загружает конфигурацию из .env (если есть) и переменных окружения.
// Возвращает признак того, что .env был прочитан.
func Load() (*Config, bool) {
	loaded := godotenv.Load() == nil

	return &Config{
		Port:           getEnv("PORT", "3000"),
		Environment:    getEnv("ENV", "development"),
		ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 10),
		DBPath:         getEnv("PLANNER_DB_PATH", "data/db/planner.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations/001_init_plans.sql"),
		StorageRoot:    getEnv("STORAGE_ROOT", "data/plans"),
		FloorCount:     getEnvAsInt("FLOOR_COUNT", 2),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    getEnvAsList("CORS_ORIGINS"),
		OpenAPIPath:    getEnv("OPENAPI_PATH", "docs/planner.openapi.yaml"),
		SessionIdleTTL: getEnvAsInt("SESSION_IDLE_TTL", 120),
		SweepInterval:  getEnvAsInt("SESSION_SWEEP_INTERVAL", 5),
	}, loaded
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
