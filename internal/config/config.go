package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Agent holds every tunable of the query-to-answer pipeline.
type Agent struct {
	FeedBaseURL string
	FeedSensors []string
	FeedToken   string

	ProviderTimeout time.Duration
	RetryBackoff    time.Duration

	TitleWeight   float64
	BodyWeight    float64
	RecencyBonus  float64
	Staleness     time.Duration
	RecencyWindow time.Duration
	TopN          int

	SnapshotFile string
	LogFile      string
}

// Stub describes the local development feed server.
type Stub struct {
	BindAddr string
	Items    int
}

// LoadAgent builds an Agent config from environment variables.
func LoadAgent() (*Agent, error) {
	c := &Agent{
		FeedBaseURL:     getEnv("FEED_BASE_URL", "http://homeassistant.local:8123"),
		FeedSensors:     splitAndTrim(getEnv("FEED_SENSORS", "sensor.global_news_toronto_rest,sensor.global_news_main_rest")),
		FeedToken:       getEnv("FEED_TOKEN", ""),
		ProviderTimeout: getDuration("AGENT_PROVIDER_TIMEOUT", "3s"),
		RetryBackoff:    getDuration("AGENT_RETRY_BACKOFF", "500ms"),
		TitleWeight:     getFloat("AGENT_TITLE_WEIGHT", 2),
		BodyWeight:      getFloat("AGENT_BODY_WEIGHT", 1),
		RecencyBonus:    getFloat("AGENT_RECENCY_BONUS", 1),
		Staleness:       getDuration("AGENT_STALENESS", "48h"),
		RecencyWindow:   getDuration("AGENT_RECENCY_WINDOW", "0s"),
		TopN:            getInt("AGENT_TOP_N", 3),
		SnapshotFile:    getEnv("AGENT_SNAPSHOT_FILE", ""),
		LogFile:         getEnv("LOG_FILE", "news.log"),
	}

	if c.FeedToken == "" {
		return nil, fmt.Errorf("FEED_TOKEN is required to reach the news provider")
	}
	if len(c.FeedSensors) == 0 {
		return nil, fmt.Errorf("FEED_SENSORS must contain at least one sensor entity")
	}
	if c.ProviderTimeout <= 0 {
		return nil, fmt.Errorf("AGENT_PROVIDER_TIMEOUT must be positive")
	}
	if c.ProviderTimeout > 10*time.Second {
		return nil, fmt.Errorf("AGENT_PROVIDER_TIMEOUT cannot exceed 10s")
	}
	if c.RetryBackoff < 0 {
		return nil, fmt.Errorf("AGENT_RETRY_BACKOFF cannot be negative")
	}
	if c.TitleWeight < 0 || c.BodyWeight < 0 {
		return nil, fmt.Errorf("scoring weights cannot be negative")
	}
	if c.Staleness <= 0 {
		return nil, fmt.Errorf("AGENT_STALENESS must be positive")
	}
	if c.RecencyWindow < 0 {
		return nil, fmt.Errorf("AGENT_RECENCY_WINDOW cannot be negative")
	}
	if c.TopN <= 0 {
		return nil, fmt.Errorf("AGENT_TOP_N must be positive")
	}

	return c, nil
}

// LoadStub builds a Stub config from environment variables.
func LoadStub() (*Stub, error) {
	c := &Stub{
		BindAddr: getEnv("STUB_BIND_ADDR", ":8123"),
		Items:    getInt("STUB_ITEMS", 6),
	}

	if c.Items <= 0 {
		return nil, fmt.Errorf("STUB_ITEMS must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
