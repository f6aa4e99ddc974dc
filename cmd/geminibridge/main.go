// Package main is the entry point for the geminibridge adapter.
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/howard-nolan/geminibridge/internal/cache"
	"github.com/howard-nolan/geminibridge/internal/config"
	"github.com/howard-nolan/geminibridge/internal/gemini"
	"github.com/howard-nolan/geminibridge/internal/metrics"
	"github.com/howard-nolan/geminibridge/internal/server"
	"github.com/howard-nolan/geminibridge/internal/tokenizer"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Pick the cache backend. Memory is per-process; Redis shares one
	// cache across processes so a fleet of adapters never pays for the
	// same request twice.
	var store cache.Store
	switch cfg.Cache.Backend {
	case "memory":
		store = cache.NewMemory()
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		store = cache.NewRedis(rdb, cfg.Cache.TTL)
	default:
		log.Fatalf("unknown cache backend in config: %q", cfg.Cache.Backend)
	}
	log.Printf("cache backend: %s", cfg.Cache.Backend)

	transport, err := gemini.NewHTTPTransport(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, http.DefaultClient)
	if err != nil {
		log.Fatalf("failed to build transport: %v", err)
	}

	m := metrics.New()

	client, err := gemini.NewClient(gemini.ClientConfig{
		Transport:      transport,
		Cache:          store,
		Tokenizer:      tokenizer.Simple{},
		TokenizerID:    cfg.Gemini.Tokenizer,
		Model:          cfg.Gemini.Model,
		EmbeddingModel: cfg.Gemini.EmbeddingModel,
		Metrics:        m,
	})
	if err != nil {
		log.Fatalf("failed to build gemini client: %v", err)
	}
	log.Printf("gemini model: %q", cfg.Gemini.Model)

	srv := server.New(client, m)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("geminibridge listening on :%d", cfg.Server.Port)

	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
