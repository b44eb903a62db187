package main

import (
	"os"
	"strconv"
)

// defaultConversionRate is the dollars-per-RVU rate used when none is
// configured.
const defaultConversionRate = 40.0

type Config struct {
	Port           string
	ProjectID      string
	Region         string
	Model          string
	ConversionRate float64
	DataFile       string
	DatabaseURL    string
	SecureCookies  bool
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func loadConfig() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		ProjectID:      getEnv("GEMINI_PROJECT_ID", ""),
		Region:         getEnv("VERTEX_AI_REGION", "us-central1"),
		Model:          getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		ConversionRate: defaultConversionRate,
		DataFile:       getEnv("DATA_FILE", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SecureCookies:  getEnv("SECURE_COOKIES", "") == "true",
	}
	if raw := os.Getenv("RVU_CONVERSION_RATE"); raw != "" {
		if rate, err := strconv.ParseFloat(raw, 64); err == nil && rate > 0 {
			cfg.ConversionRate = rate
		}
	}
	return cfg
}
