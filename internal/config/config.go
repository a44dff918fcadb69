// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Configuration holds all service configuration, loaded once at startup.
type Configuration struct {
	Service       ServiceConfig
	STT           STTConfig
	Classifier    ClassifierConfig
	Store         StoreConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig identifies the service and its HTTP listener.
type ServiceConfig struct {
	Principal string
	HTTPPort  string
}

// STTConfig selects and tunes the transcription provider.
type STTConfig struct {
	Provider      string // "google" or "mock"
	LanguageCode  string
	SampleRateHz  int
	AudioEncoding string // default encoding when the mime hint is absent
}

// ClassifierConfig selects and tunes the classification provider.
type ClassifierConfig struct {
	Provider string // "gemini" or "mock"
	Model    string
}

// StoreConfig selects the collection store backend.
type StoreConfig struct {
	Backend  string // "mongo" or "memory"
	MongoURI string
	Database string
}

// KafkaConfig configures routing-event publication.
type KafkaConfig struct {
	Enabled    bool
	Brokers    []string
	TopicNotes string
	TopicTodos string
	Principal  string
}

// ObservabilityConfig configures logging and the metrics listener.
type ObservabilityConfig struct {
	LogLevel    string
	LogFormat   string
	MetricsPort string
}

// Load reads configuration from environment variables with defaults.
func Load() *Configuration {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-voicenote-router")

	return &Configuration{
		Service: ServiceConfig{
			Principal: principal,
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
		},
		STT: STTConfig{
			Provider:      envOrDefault("STT_PROVIDER", "mock"),
			LanguageCode:  envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			SampleRateHz:  intEnv("STT_SAMPLE_RATE_HZ", 16000),
			AudioEncoding: envOrDefault("STT_AUDIO_ENCODING", "LINEAR16"),
		},
		Classifier: ClassifierConfig{
			Provider: envOrDefault("CLASSIFIER_PROVIDER", "mock"),
			Model:    envOrDefault("CLASSIFIER_MODEL", "gemini-flash-latest"),
		},
		Store: StoreConfig{
			Backend:  envOrDefault("STORE_BACKEND", "memory"),
			MongoURI: envOrDefault("MONGO_URI", "mongodb://localhost:27017/voicenotes"),
			Database: envOrDefault("MONGO_DATABASE", "voicenotes"),
		},
		Kafka: KafkaConfig{
			Enabled:    boolEnv("KAFKA_ENABLED", false),
			Brokers:    listEnv("KAFKA_BROKERS"),
			TopicNotes: envOrDefault("KAFKA_TOPIC_NOTES", "voicenotes.note.routed"),
			TopicTodos: envOrDefault("KAFKA_TOPIC_TODOS", "voicenotes.todo.created"),
			Principal:  principal,
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "json"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func boolEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func listEnv(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
