package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Service.Principal != "svc-voicenote-router" {
		t.Errorf("expected default principal, got %q", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port 8080, got %q", cfg.Service.HTTPPort)
	}
	if cfg.STT.Provider != "mock" {
		t.Errorf("expected default STT provider mock, got %q", cfg.STT.Provider)
	}
	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.Classifier.Provider != "mock" {
		t.Errorf("expected default classifier provider mock, got %q", cfg.Classifier.Provider)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("expected default store backend memory, got %q", cfg.Store.Backend)
	}
	if cfg.Kafka.Enabled {
		t.Error("Kafka must be disabled by default")
	}
	if cfg.Kafka.TopicNotes != "voicenotes.note.routed" {
		t.Errorf("unexpected default notes topic %q", cfg.Kafka.TopicNotes)
	}
	if cfg.Kafka.TopicTodos != "voicenotes.todo.created" {
		t.Errorf("unexpected default todos topic %q", cfg.Kafka.TopicTodos)
	}
	if cfg.Observability.LogLevel != "info" || cfg.Observability.LogFormat != "json" {
		t.Errorf("unexpected default observability config %+v", cfg.Observability)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVICE_PRINCIPAL", "svc-test")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("STT_PROVIDER", "google")
	t.Setenv("STT_SAMPLE_RATE_HZ", "44100")
	t.Setenv("CLASSIFIER_PROVIDER", "gemini")
	t.Setenv("CLASSIFIER_MODEL", "gemini-pro-latest")
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("MONGO_URI", "mongodb://db:27017/test")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-0:9092, kafka-1:9092")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Service.Principal != "svc-test" {
		t.Errorf("expected principal svc-test, got %q", cfg.Service.Principal)
	}
	if cfg.Kafka.Principal != "svc-test" {
		t.Errorf("Kafka principal must follow the service principal, got %q", cfg.Kafka.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected port 9999, got %q", cfg.Service.HTTPPort)
	}
	if cfg.STT.Provider != "google" || cfg.STT.SampleRateHz != 44100 {
		t.Errorf("unexpected STT config %+v", cfg.STT)
	}
	if cfg.Classifier.Provider != "gemini" || cfg.Classifier.Model != "gemini-pro-latest" {
		t.Errorf("unexpected classifier config %+v", cfg.Classifier)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.MongoURI != "mongodb://db:27017/test" {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if want := []string{"kafka-0:9092", "kafka-1:9092"}; !reflect.DeepEqual(cfg.Kafka.Brokers, want) {
		t.Errorf("expected brokers %v, got %v", want, cfg.Kafka.Brokers)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Observability.LogLevel)
	}
}

func TestLoad_BadNumericFallsBack(t *testing.T) {
	t.Setenv("STT_SAMPLE_RATE_HZ", "not-a-number")
	t.Setenv("KAFKA_ENABLED", "not-a-bool")

	cfg := Load()

	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("bad int must fall back to default, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.Kafka.Enabled {
		t.Error("bad bool must fall back to default")
	}
}
