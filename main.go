package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"readyroom/pkg/cache"
	"readyroom/pkg/config"
	"readyroom/pkg/llm"
	"readyroom/pkg/logbook"
	"readyroom/pkg/server"
	"readyroom/pkg/settings"
)

func main() {
	// Load config.yml
	cfg, err := config.LoadConfig("config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load .env for secrets
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("Missing required environment variable: OPENAI_API_KEY")
	}
	baseURL := os.Getenv("OPENAI_BASE_URL") // optional, provider default when empty

	// Initialize the completion client
	llmClient := llm.NewClient(
		apiKey,
		baseURL,
		cfg.ModelSettings.AdviceModel,
		cfg.ModelSettings.TitleModel,
		cfg.ModelSettings.Temperature,
	)

	ctx := context.Background()

	// Redis persists the settings blob and the captain's log. Without it
	// the service still runs, memory-only.
	var store *cache.Cache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		store, err = cache.NewRedisCache(redisURL, "readyroom")
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer store.Close()
		log.Println("Redis persistence enabled")
	} else {
		log.Println("REDIS_URL not set, settings and captain's log will not persist")
	}

	var persister settings.Persister
	if store != nil {
		persister = settings.NewRedisPersister(store)
	}
	settingsStore := settings.NewStore(ctx, persister)
	logStore := logbook.NewStore(ctx, store)
	annotator := logbook.NewAnnotator(llmClient)

	srv := server.New(llmClient, annotator, logStore, settingsStore)

	log.Printf("Ready Room service starting on %s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, srv.Handler()))
}
