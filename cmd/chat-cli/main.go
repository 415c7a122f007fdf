package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cinecore/marquee/internal/llm"
	"github.com/cinecore/marquee/pkg/marquee"
	"github.com/cinecore/marquee/pkg/marquee/config"
	"github.com/cinecore/marquee/pkg/marquee/store"
	"github.com/cinecore/marquee/pkg/marquee/store/sqlite"
	"github.com/cinecore/marquee/pkg/marquee/textnorm"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to app config YAML (required)")
		query      = flag.String("query", "", "One-shot question (non-interactive mode)")
		topK       = flag.Int("topk", 0, "Number of movies to retrieve (overrides config)")
	)
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

	limit := cfg.TopK
	if *topK > 0 {
		limit = *topK
	}

	ctx := context.Background()

	warehouse, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.WarehousePath})
	if err != nil {
		log.Fatalf("open warehouse: %v", err)
	}

	client := llm.New(llm.Config{
		APIKey:         apiKey,
		BaseURL:        cfg.LLM.BaseURL,
		ChatModel:      cfg.LLM.ChatModel,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
	})

	var normalizer *textnorm.Normalizer
	if cfg.StoplistPath != "" {
		normalizer, err = config.NewNormalizer(cfg.StoplistPath)
		if err != nil {
			log.Fatalf("build normalizer: %v", err)
		}
	}

	agent, err := marquee.NewAgent(marquee.AgentOptions{
		Store:      warehouse,
		Embedder:   client,
		Responder:  client,
		Normalizer: normalizer,
		TopK:       limit,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer agent.Close()

	// One-shot query mode
	if *query != "" {
		if _, err := ask(ctx, agent, *query, nil); err != nil {
			log.Fatal(err)
		}
		return
	}

	fmt.Println("===========================================")
	fmt.Println("  Marquee Chat CLI")
	fmt.Println("  Movie recommendations over your warehouse")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Ask about movies, or use:")
	fmt.Println("  /top              highest rated movies")
	fmt.Println("  /genre <name>     movies in a genre")
	fmt.Println("  /actor <name>     movies featuring an actor")
	fmt.Println("Ctrl+D to exit.")
	fmt.Println()

	var history []llm.Exchange
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if err := runCommand(ctx, warehouse, line, limit); err != nil {
				fmt.Println("Error:", err)
			}
			continue
		}

		answer, err := ask(ctx, agent, line, history)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		history = append(history, llm.Exchange{Question: line, Answer: answer})
	}

	fmt.Println("\nGoodbye!")
}

func ask(ctx context.Context, agent *marquee.Agent, query string, history []llm.Exchange) (string, error) {
	answer, matches, err := agent.ChatAboutMovies(ctx, query, history)
	if err != nil {
		return "", err
	}

	if len(matches) > 0 {
		fmt.Println("\nBased on:")
		for _, m := range matches {
			fmt.Printf("  - %s (%d) similarity %.2f\n", m.Title, m.Year, m.Similarity)
		}
	}
	fmt.Println()
	fmt.Println(answer)
	fmt.Println()
	return answer, nil
}

func runCommand(ctx context.Context, warehouse store.Store, line string, limit int) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var (
		movies []store.MovieSummary
		err    error
	)
	switch cmd {
	case "/top":
		movies, err = warehouse.TopRated(ctx, limit)
	case "/genre":
		if arg == "" {
			return fmt.Errorf("usage: /genre <name>")
		}
		movies, err = warehouse.MoviesByGenre(ctx, arg, limit)
	case "/actor":
		if arg == "" {
			return fmt.Errorf("usage: /actor <name>")
		}
		movies, err = warehouse.MoviesByActor(ctx, arg, limit)
	default:
		return fmt.Errorf("unknown command %s", cmd)
	}
	if err != nil {
		return err
	}

	if len(movies) == 0 {
		fmt.Println("No movies found.")
		return nil
	}
	for _, m := range movies {
		fmt.Printf("  %s (%d, %s) rating %.1f\n", m.Title, m.Year, m.Genres, m.Rating)
	}
	fmt.Println()
	return nil
}
