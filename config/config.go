package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port int

	KnowledgeAPIURL string
	SpeechAPIURL    string
	TTSAPIURL       string

	// ExternalTimeout bounds each collaborator call in the answer pipeline.
	ExternalTimeout time.Duration

	// ChunkLimit is the max size of one outbound chat message; longer
	// replies are split and the overflow sent through the gateway directly.
	ChunkLimit int

	SessionTTL    time.Duration
	SweepInterval time.Duration

	AnswerCacheTTL time.Duration

	GatewaySendURL string
	GatewayNumber  string
	GatewayToken   string
}

func Load() Config {
	return Config{
		Port:            envInt("PORT", 8080),
		KnowledgeAPIURL: envStr("RAG_API_URL", "http://localhost:8000"),
		SpeechAPIURL:    envStr("SPEECH_API_URL", "http://localhost:8000"),
		TTSAPIURL:       envStr("TTS_API_URL", "http://localhost:8000"),
		ExternalTimeout: envDuration("EXTERNAL_TIMEOUT", 12*time.Second),
		ChunkLimit:      envInt("CHAT_CHUNK_LIMIT", 1500),
		SessionTTL:      envDuration("SESSION_TTL", 30*time.Minute),
		SweepInterval:   envDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		AnswerCacheTTL:  envDuration("ANSWER_CACHE_TTL", 10*time.Minute),
		GatewaySendURL:  envStr("GATEWAY_SEND_URL", ""),
		GatewayNumber:   envStr("GATEWAY_NUMBER", ""),
		GatewayToken:    envStr("GATEWAY_TOKEN", ""),
	}
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
