package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// Config carries everything main needs to wire the pipeline. All values come
// from a .env file or the process environment.
type Config struct {
	Port               string
	LenderBaseURL      string
	InterpreterBaseURL string
	InterpreterModel   string
	// RedisAddr empty means the in-memory cache is used instead
	RedisAddr string
}

// Load reads a .env file when present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using system environment variables")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		LenderBaseURL:      getEnv("LENDER_BASE_URL", "http://localhost:8001"),
		InterpreterBaseURL: getEnv("INTERPRETER_BASE_URL", "http://localhost:11434"),
		InterpreterModel:   getEnv("INTERPRETER_MODEL", "llama3.2"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
