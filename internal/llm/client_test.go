package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cinecore/marquee/pkg/marquee/store"
)

func newStubServer(t *testing.T, onChat func(body string)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/embeddings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.7]}]}`)
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if onChat != nil {
			onChat(string(body))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"Try The Godfather."}}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbed(t *testing.T) {
	srv := newStubServer(t, nil)
	client := New(Config{APIKey: "test", BaseURL: srv.URL})

	vec, err := client.Embed(context.Background(), "imprisoned men bond")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 || vec[2] != 0.7 {
		t.Errorf("vec = %v", vec)
	}
}

func TestAnswerAboutMoviesGroundsPrompt(t *testing.T) {
	var chatBody string
	srv := newStubServer(t, func(body string) { chatBody = body })
	client := New(Config{APIKey: "test", BaseURL: srv.URL, ChatModel: "gpt-test"})

	movies := []store.Match{{
		MovieSummary: store.MovieSummary{Title: "The Shawshank Redemption", Year: 1994, Genres: "Drama", Rating: 9.3},
		Similarity:   0.91,
		Overview:     "imprisoned men bond",
	}}
	history := []Exchange{{Question: "any prison movies?", Answer: "A few."}}

	answer, err := client.AnswerAboutMovies(context.Background(), "something similar?", history, movies)
	if err != nil {
		t.Fatalf("AnswerAboutMovies: %v", err)
	}
	if answer != "Try The Godfather." {
		t.Errorf("answer = %q", answer)
	}

	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal([]byte(chatBody), &req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if req.Model != "gpt-test" {
		t.Errorf("model = %q", req.Model)
	}
	// system + 2 history turns + grounded question
	if len(req.Messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(req.Messages))
	}
	last := req.Messages[len(req.Messages)-1]
	if !strings.Contains(last.Content, "The Shawshank Redemption") {
		t.Errorf("prompt not grounded on retrieved movies: %q", last.Content)
	}
	if !strings.Contains(last.Content, "something similar?") {
		t.Errorf("prompt missing user question: %q", last.Content)
	}
}

func TestAnswerAboutMoviesServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad"}}`, http.StatusBadRequest)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(Config{APIKey: "test", BaseURL: srv.URL})
	if _, err := client.AnswerAboutMovies(context.Background(), "q", nil, nil); err == nil {
		t.Fatal("expected error from failing endpoint")
	}
}
