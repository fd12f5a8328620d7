// Package common holds process-wide configuration.
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	Addr string
}

type OCRConfig struct {
	Language string
	Timeout  time.Duration
}

type LLMConfig struct {
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

type PipelineConfig struct {
	// MinOCRConfidence is the gate cutoff below which no model calls are
	// made for a request.
	MinOCRConfidence float64
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8000"),
		},
		OCR: OCRConfig{
			Language: getEnv("OCR_LANG", "eng"),
			Timeout:  getEnvAsDuration("OCR_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			Provider:    getEnv("LLM_PROVIDER", "ollama"),
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			Model:       getEnv("LLM_MODEL", ""),
			APIKey:      getEnv("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
			Temperature: getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
		Pipeline: PipelineConfig{
			MinOCRConfidence: getEnvAsFloat64("MIN_OCR_CONFIDENCE", 0.3),
		},
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.Pipeline.MinOCRConfidence < 0 || c.Pipeline.MinOCRConfidence > 1 {
		return fmt.Errorf("MIN_OCR_CONFIDENCE must be in [0,1], got %v", c.Pipeline.MinOCRConfidence)
	}
	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required for the openai provider")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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
