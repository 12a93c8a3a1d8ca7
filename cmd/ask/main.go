// cmd/ask runs one query through the pipeline and writes trace lines to
// stdout followed by a ===RESULT=== separator and the JSON result. Front ends
// that spawn it as a subprocess stream the lines and parse everything after
// the separator.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ecosage/ecosage/internal/config"
	"github.com/ecosage/ecosage/internal/crag"
	"github.com/ecosage/ecosage/internal/llm"
	"github.com/ecosage/ecosage/internal/retriever"
	"github.com/ecosage/ecosage/internal/search"
	"github.com/ecosage/ecosage/internal/vectorstore"
)

const resultSeparator = "===RESULT==="

func main() {
	query := flag.String("query", "", "question to answer")
	mode := flag.Int("type", 2, "response type: 1 = card, 2 = markdown")
	lat := flag.Float64("lat", 0, "latitude for answer context")
	lon := flag.Float64("lon", 0, "longitude for answer context")
	hasLocation := flag.Bool("location", false, "whether -lat/-lon are set")
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "usage: ask -query \"...\" [-type 1|2] [-location -lat X -lon Y]")
		os.Exit(2)
	}

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

	cycle := crag.NewCycle(
		retriever.New(provider, store, cfg.Vector.TopK),
		crag.NewLLMGrader(provider),
		search.NewClient(&cfg.Search),
		crag.NewLLMGenerator(provider),
		cfg.Pipeline.TrustedDomains,
		cfg.Pipeline.AdapterTimeout,
	)
	orchestrator := crag.NewOrchestrator(
		crag.NewLLMDecomposer(provider),
		cycle,
		crag.NewLLMGenerator(provider),
		crag.NewLLMFormatter(provider),
	)

	req := crag.Request{Query: *query, Mode: crag.Mode(*mode)}
	if req.Mode != crag.ModeCard {
		req.Mode = crag.ModeMarkdown
	}
	if *hasLocation {
		req.Latitude = lat
		req.Longitude = lon
	}

	trace := crag.NewTrace()
	trace.SetSink(func(step string) { fmt.Println(step) })

	result, err := orchestrator.Answer(ctx, req, trace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ask failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(resultSeparator)
	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(result.Payload()); err != nil {
		log.Fatalf("failed to encode result: %v", err)
	}
}
