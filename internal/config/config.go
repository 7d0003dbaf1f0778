package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	NATS        NATSConfig
	Pipeline    PipelineConfig
	Sources     SourcesConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// NATSConfig holds NATS configuration. Publishing is optional; when
// disabled the pipeline runs without an event bus.
type NATSConfig struct {
	Enabled        bool
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// PipelineConfig holds trend pipeline configuration
type PipelineConfig struct {
	ItemsPerSource   int
	ReportLimit      int
	DefaultRegion    string
	PublishThreshold float64
	EventsTopic      string
}

// SourcesConfig holds credentials for the platform collaborators.
// Missing or placeholder credentials switch a source to mock data.
type SourcesConfig struct {
	TikTokAccessToken          string
	InstagramAccessToken       string
	InstagramBusinessAccountID string
	InstagramAPIVersion        string
	FacebookAccessToken        string
	FacebookAPIVersion         string
	FacebookPageIDs            []string
	PinterestAccessToken       string
	PinterestAPIVersion        string
	ShopifyAPIKey              string
	AmazonAccessKey            string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		NATS: NATSConfig{
			Enabled:        getEnvAsBool("NATS_ENABLED", false),
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Pipeline: PipelineConfig{
			ItemsPerSource:   getEnvAsInt("PIPELINE_ITEMS_PER_SOURCE", 10),
			ReportLimit:      getEnvAsInt("PIPELINE_REPORT_LIMIT", 10),
			DefaultRegion:    getEnv("PIPELINE_DEFAULT_REGION", "US"),
			PublishThreshold: getEnvAsFloat("PIPELINE_PUBLISH_THRESHOLD", 70.0),
			EventsTopic:      getEnv("PIPELINE_EVENTS_TOPIC", "trend"),
		},
		Sources: SourcesConfig{
			TikTokAccessToken:          getEnv("TIKTOK_ACCESS_TOKEN", ""),
			InstagramAccessToken:       getEnv("INSTAGRAM_ACCESS_TOKEN", ""),
			InstagramBusinessAccountID: getEnv("INSTAGRAM_BUSINESS_ACCOUNT_ID", ""),
			InstagramAPIVersion:        getEnv("INSTAGRAM_API_VERSION", "v18.0"),
			FacebookAccessToken:        getEnv("FACEBOOK_ACCESS_TOKEN", ""),
			FacebookAPIVersion:         getEnv("FACEBOOK_API_VERSION", "v18.0"),
			FacebookPageIDs:            getEnvAsSlice("FACEBOOK_FASHION_PAGE_IDS", nil),
			PinterestAccessToken:       getEnv("PINTEREST_ACCESS_TOKEN", ""),
			PinterestAPIVersion:        getEnv("PINTEREST_API_VERSION", "v5"),
			ShopifyAPIKey:              getEnv("SHOPIFY_API_KEY", ""),
			AmazonAccessKey:            getEnv("AMAZON_ACCESS_KEY", ""),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Pipeline.ItemsPerSource <= 0 {
		return fmt.Errorf("items per source must be positive")
	}
	if config.Pipeline.ReportLimit <= 0 {
		return fmt.Errorf("report limit must be positive")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
