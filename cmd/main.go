package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"voice-note-router-service/internal/app"
	"voice-note-router-service/internal/config"
	"voice-note-router-service/internal/events"
	httpapi "voice-note-router-service/internal/http"
	"voice-note-router-service/internal/observability"
	"voice-note-router-service/internal/observability/logging"
	"voice-note-router-service/internal/service/classify"
	classifygemini "voice-note-router-service/internal/service/classify/gemini"
	classifymock "voice-note-router-service/internal/service/classify/mock"
	"voice-note-router-service/internal/service/folder"
	"voice-note-router-service/internal/service/pipeline"
	"voice-note-router-service/internal/service/route"
	"voice-note-router-service/internal/service/stt"
	sttgoogle "voice-note-router-service/internal/service/stt/google"
	sttmock "voice-note-router-service/internal/service/stt/mock"
	"voice-note-router-service/internal/store"
	storememory "voice-note-router-service/internal/store/memory"
	storemongo "voice-note-router-service/internal/store/mongo"
)

func main() {
	cfg := config.Load()

	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})

	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Application start failed")
	}

	ctx := context.Background()

	// Collection store
	var st store.Store
	switch cfg.Store.Backend {
	case "mongo":
		ms, err := storemongo.New(ctx, cfg.Store.MongoURI, cfg.Store.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("MongoDB store init failed")
		}
		defer func() {
			if err := ms.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("MongoDB disconnect failed")
			}
		}()
		st = ms
	default:
		log.Info().Msg("Using in-memory store (no persistence across restarts)")
		st = storememory.New()
	}

	// Transcription gateway
	var transcriber stt.Transcriber
	switch cfg.STT.Provider {
	case "google":
		g, err := sttgoogle.New(ctx, sttgoogle.Config{
			LanguageCode:    cfg.STT.LanguageCode,
			SampleRateHz:    cfg.STT.SampleRateHz,
			DefaultEncoding: cfg.STT.AudioEncoding,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Google STT init failed")
		}
		defer g.Close()
		transcriber = g
	default:
		log.Info().Msg("Using mock transcriber")
		transcriber = sttmock.New()
	}

	// Classification engine
	var classifier classify.Classifier
	switch cfg.Classifier.Provider {
	case "gemini":
		c, err := classifygemini.New(cfg.Classifier.Model, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Gemini classifier init failed")
		}
		classifier = c
	default:
		log.Info().Msg("Using mock classifier")
		classifier = classifymock.New()
	}

	// Kafka publisher for routing outcomes
	publisher := events.New(&events.Config{
		Enabled:    cfg.Kafka.Enabled,
		Brokers:    cfg.Kafka.Brokers,
		TopicNotes: cfg.Kafka.TopicNotes,
		TopicTodos: cfg.Kafka.TopicTodos,
		Principal:  cfg.Kafka.Principal,
	})
	defer publisher.Close()

	resolver := folder.New(st)
	engine := route.NewEngine(st, resolver)
	pipe := pipeline.New(transcriber, classifier, engine, publisher)

	handler := httpapi.NewHandler(pipe, st)
	router := httpapi.NewRouter(application, handler)

	obsServer := observability.NewServer(":" + cfg.Observability.MetricsPort)
	obsServer.Start()

	apiServer := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // pipeline runs synchronously per request
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", apiServer.Addr).Msg("Voice note router service started")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down HTTP servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server shutdown failed")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Observability server shutdown failed")
	}
	application.Shutdown()
}
