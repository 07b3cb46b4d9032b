package common

import (
	"os"
	"strconv"
)

// Config holds all recognizer configuration consumed by the CLI layer.
type Config struct {
	Recognizer RecognizerConfig
	Export     ExportConfig
}

// RecognizerConfig holds recognition pipeline tunables.
type RecognizerConfig struct {
	ConfidenceThreshold float64
	NeighborRadius      float64
	ExternalSampleSize  int
}

// ExportConfig holds report-output configuration.
type ExportConfig struct {
	OutputPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Recognizer: RecognizerConfig{
			ConfidenceThreshold: getEnvAsFloat("TAKEOFF_CONFIDENCE_THRESHOLD", 0.95),
			NeighborRadius:      getEnvAsFloat("TAKEOFF_NEIGHBOR_RADIUS", 500),
			ExternalSampleSize:  getEnvAsInt("TAKEOFF_EXTERNAL_SAMPLES", 20),
		},
		Export: ExportConfig{
			OutputPath: getEnv("TAKEOFF_OUTPUT", "takeoff-report.xlsx"),
		},
	}
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Recognizer.ConfidenceThreshold < 0 || c.Recognizer.ConfidenceThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "TAKEOFF_CONFIDENCE_THRESHOLD must be within [0,1]", ErrInvalidInput)
	}
	if c.Recognizer.NeighborRadius <= 0 {
		return NewAppError("CONFIG_ERROR", "TAKEOFF_NEIGHBOR_RADIUS must be positive", ErrInvalidInput)
	}
	return nil
}
