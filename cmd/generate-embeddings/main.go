package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cinecore/marquee/internal/llm"
	"github.com/cinecore/marquee/pkg/marquee"
	"github.com/cinecore/marquee/pkg/marquee/config"
	"github.com/cinecore/marquee/pkg/marquee/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Path to app config YAML (required)")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}

	cfg, err := config.LoadApp(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.WarehousePath == "" {
		log.Fatal("warehouse_path required in config")
	}

	apiKey := cfg.LLM.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		log.Fatal("llm.api_key in config or OPENAI_API_KEY required")
	}

	ctx := context.Background()

	warehouse, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.WarehousePath})
	if err != nil {
		log.Fatalf("open warehouse: %v", err)
	}
	defer warehouse.Close()

	client := llm.New(llm.Config{
		APIKey:         apiKey,
		BaseURL:        cfg.LLM.BaseURL,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
	})

	agent, err := marquee.NewAgent(marquee.AgentOptions{
		Store:    warehouse,
		Embedder: client,
	})
	if err != nil {
		log.Fatal(err)
	}

	missing, err := warehouse.MoviesMissingEmbedding(ctx)
	if err != nil {
		log.Fatalf("list missing embeddings: %v", err)
	}
	if len(missing) == 0 {
		fmt.Println("All movies already embedded")
		return
	}
	log.Printf("Embedding %d movies", len(missing))

	n, err := agent.EmbedMissing(ctx)
	if err != nil {
		log.Fatalf("embedded %d movies before failing: %v", n, err)
	}
	fmt.Printf("Embedded %d movies\n", n)
}
