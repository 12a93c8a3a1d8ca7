// cmd/ingest bootstraps the vector index from local text/markdown files.
package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ecosage/ecosage/internal/config"
	"github.com/ecosage/ecosage/internal/ingest"
	"github.com/ecosage/ecosage/internal/llm"
	"github.com/ecosage/ecosage/internal/vectorstore"
)

func main() {
	dir := flag.String("dir", ".", "directory to walk for .txt and .md files")
	dim := flag.Int("dim", 1536, "embedding dimension for schema creation")
	sentences := flag.Int("sentences", 5, "sentences per chunk")
	overlap := flag.Int("overlap", 1, "overlapping sentences between chunks")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	provider, err := llm.NewOpenAI(&cfg.OpenAI)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	ctx := context.Background()
	store, err := vectorstore.New(ctx, cfg.Vector.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to vector store: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx, *dim); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	pipeline := ingest.NewPipeline(
		ingest.NewSentenceChunker(*sentences, *overlap),
		provider,
		store,
	)

	total := 0
	err = filepath.WalkDir(*dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		n, err := pipeline.IngestText(ctx, string(data), path)
		if err != nil {
			return err
		}
		total += n
		return nil
	})
	if err != nil {
		log.Fatalf("ingestion failed: %v", err)
	}

	log.Printf("ingested %d chunks from %s", total, *dir)
}
