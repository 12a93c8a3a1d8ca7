// cmd/server/main.go
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/ecosage/ecosage/internal/config"
	"github.com/ecosage/ecosage/internal/crag"
	"github.com/ecosage/ecosage/internal/llm"
	"github.com/ecosage/ecosage/internal/retriever"
	"github.com/ecosage/ecosage/internal/search"
	"github.com/ecosage/ecosage/internal/server"
	"github.com/ecosage/ecosage/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	provider, err := llm.NewOpenAI(&cfg.OpenAI)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	store, err := vectorstore.New(context.Background(), cfg.Vector.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to vector store: %v", err)
	}
	defer store.Close()

	orchestrator := buildPipeline(cfg, provider, store)

	srv := server.New(cfg.Server, orchestrator)
	slog.Info("starting ecosage", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func buildPipeline(cfg *config.Config, provider *llm.OpenAI, store *vectorstore.Store) *crag.Orchestrator {
	cycle := crag.NewCycle(
		retriever.New(provider, store, cfg.Vector.TopK),
		crag.NewLLMGrader(provider),
		search.NewClient(&cfg.Search),
		crag.NewLLMGenerator(provider),
		cfg.Pipeline.TrustedDomains,
		cfg.Pipeline.AdapterTimeout,
	)

	return crag.NewOrchestrator(
		crag.NewLLMDecomposer(provider),
		cycle,
		crag.NewLLMGenerator(provider),
		crag.NewLLMFormatter(provider),
	)
}
