package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AI providers selectable with AI_PROVIDER.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Server
	Port           int
	CORSOrigin     string
	LogDevelopment bool
	Premium        bool // initial premium state of the account

	// Text generation
	AIProvider    string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration

	// Sleep history; empty keeps it in memory
	SleepDBPath string

	// Synthesis
	MasterGain      float64
	FadeIn          time.Duration
	Release         time.Duration
	TeardownTimeout time.Duration
	PreviewVolume   int

	// Delivery
	StreamBitrate int // MP3 kbps
	OpusBitrate   int // bits per second
	ICEServers    []string
	LocalPlayback bool
	SpeakerVolume float64
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Port:           envInt("ASMRFLOW_PORT", 8080),
		CORSOrigin:     envStr("ASMRFLOW_CORS_ORIGIN", "*"),
		LogDevelopment: envBool("LOG_DEVELOPMENT", false),
		Premium:        envBool("ASMRFLOW_PREMIUM", false),

		AIProvider:    strings.ToLower(envStr("AI_PROVIDER", ProviderLocal)),
		OpenAIAPIKey:  envStr("OPENAI_API_KEY", ""),
		OpenAIBaseURL: envStr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   envStr("OPENAI_MODEL", "gpt-4o"),
		OpenAITimeout: time.Duration(envInt("OPENAI_TIMEOUT", 60)) * time.Second,

		SleepDBPath: envStr("SLEEP_DB_PATH", ""),

		MasterGain:      envFloat("MASTER_GAIN", 0.8),
		FadeIn:          envMillis("FADE_IN_MS", 500),
		Release:         envMillis("RELEASE_MS", 300),
		TeardownTimeout: envMillis("TEARDOWN_TIMEOUT_MS", 2000),
		PreviewVolume:   envInt("PREVIEW_VOLUME", 70),

		StreamBitrate: envInt("STREAM_BITRATE_KBPS", 192),
		OpusBitrate:   envInt("OPUS_BITRATE", 128000),
		ICEServers:    envList("ICE_SERVERS"),
		LocalPlayback: envBool("LOCAL_PLAYBACK", false),
		SpeakerVolume: envFloat("SPEAKER_VOLUME", 1.0),
	}
}

// Validate rejects values the service cannot start with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.AIProvider {
	case ProviderLocal, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q (want %s or %s)", c.AIProvider, ProviderLocal, ProviderOpenAI)
	}
	if c.PreviewVolume < 0 || c.PreviewVolume > 100 {
		return fmt.Errorf("PREVIEW_VOLUME %d out of range 0-100", c.PreviewVolume)
	}
	if c.TeardownTimeout <= 0 {
		return fmt.Errorf("TEARDOWN_TIMEOUT_MS must be positive")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

// envList splits a comma-separated value, dropping empty items.
func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
