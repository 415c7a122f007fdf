// Package llm is the language-model boundary: text to embedding vector, and
// grounded prompt to answer. The core pipeline never calls this package; it
// consumes the pipeline's processed overviews.
package llm

import (
	"bytes"
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cinecore/marquee/pkg/marquee/store"
)

// Config configures the client. BaseURL is optional and points at any
// OpenAI-compatible endpoint.
type Config struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
}

// Client calls an OpenAI-compatible API for embeddings and chat.
type Client struct {
	api        *openai.Client
	chatModel  string
	embedModel openai.EmbeddingModel
}

// New creates a client. Defaults: gpt-4o-mini for chat,
// text-embedding-ada-002 for embeddings.
func New(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	embedModel := openai.AdaEmbeddingV2
	if cfg.EmbeddingModel != "" {
		embedModel = openai.EmbeddingModel(cfg.EmbeddingModel)
	}

	return &Client{
		api:        openai.NewClientWithConfig(apiCfg),
		chatModel:  chatModel,
		embedModel: embedModel,
	}
}

// Embed returns the embedding vector for text. One request per call; the
// caller drives sequencing.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.embedModel,
	})
	if err != nil {
		return nil, fmt.Errorf("llm embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("llm embed: empty response")
	}
	return resp.Data[0].Embedding, nil
}

// Exchange is one prior question/answer pair of a conversation.
type Exchange struct {
	Question string
	Answer   string
}

// AnswerAboutMovies asks the chat model the user's question, grounded on
// the retrieved similar movies and the conversation so far.
func (c *Client) AnswerAboutMovies(ctx context.Context, query string, history []Exchange, movies []store.Match) (string, error) {
	messages := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: "You are a movie recommendation assistant. Answer using ONLY the provided movies as context.",
	}}
	for _, ex := range history {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: ex.Question},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: ex.Answer},
		)
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: formatPrompt(query, movies),
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("llm chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm chat: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func formatPrompt(query string, movies []store.Match) string {
	var buf bytes.Buffer
	buf.WriteString("Based on these similar movies:\n")
	for _, m := range movies {
		fmt.Fprintf(&buf, "- %s (%d, %s) rating %.1f\n", m.Title, m.Year, m.Genres, m.Rating)
		if m.Overview != "" {
			fmt.Fprintf(&buf, "  %s\n", m.Overview)
		}
	}
	fmt.Fprintf(&buf, "\nUser question: %s\n", query)
	return buf.String()
}
