// Package events provides event publishing functionality.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"voice-note-router-service/internal/observability/metrics"
)

// Publisher publishes routing outcomes to separate Kafka topics.
type Publisher struct {
	writerNotes *kafka.Writer
	writerTodos *kafka.Writer
	principal   string
	topicNotes  string
	topicTodos  string
	enabled     bool
	metrics     *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers    []string
	TopicNotes string
	TopicTodos string
	Principal  string
	Enabled    bool
}

// New creates a new Kafka event publisher with separate topics for routed
// notes and created todos.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:  cfg.Principal,
			topicNotes: cfg.TopicNotes,
			topicTodos: cfg.TopicTodos,
			enabled:    false,
			metrics:    m,
		}
	}

	// Longer dial timeouts for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerNotes := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicNotes,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerTodos := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicTodos,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicNotes", cfg.TopicNotes).
		Str("topicTodos", cfg.TopicTodos).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerNotes: writerNotes,
		writerTodos: writerTodos,
		principal:   cfg.Principal,
		topicNotes:  cfg.TopicNotes,
		topicTodos:  cfg.TopicTodos,
		enabled:     true,
		metrics:     m,
	}
}

// PublishNoteRouted publishes a routed-note event to the notes topic.
func (p *Publisher) PublishNoteRouted(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerNotes, p.topicNotes, "note.routed", key, event)
}

// PublishTodoCreated publishes a created-todo event to the todos topic.
func (p *Publisher) PublishTodoCreated(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerTodos, p.topicTodos, "todo.created", key, event)
}

// publish is the internal method that writes to a specific Kafka writer.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerNotes != nil {
		if e := p.writerNotes.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing notes writer")
			err = e
		}
	}
	if p.writerTodos != nil {
		if e := p.writerTodos.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing todos writer")
			err = e
		}
	}
	return err
}
