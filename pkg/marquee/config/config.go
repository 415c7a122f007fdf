// Package config loads the YAML configuration files for the pipeline and
// the agent commands.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cinecore/marquee/pkg/marquee/internalerr"
	"github.com/cinecore/marquee/pkg/marquee/textnorm"
)

// Stoplist is the stopword list configuration.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file.
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// LLM configures the language-model boundary.
type LLM struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

// App is the top-level configuration shared by the commands. Credentials are
// explicit fields here or environment variables resolved by the command;
// nothing reads ambient global state.
type App struct {
	DatasetPath      string `yaml:"dataset"`
	OutputDir        string `yaml:"output_dir"`
	WarehousePath    string `yaml:"warehouse_path"`
	StoplistPath     string `yaml:"stoplist"`
	KeywordsPerMovie int    `yaml:"keywords_per_movie"`
	TopK             int    `yaml:"top_k"`
	LLM              LLM    `yaml:"llm"`
}

// LoadApp loads the app configuration from a YAML file.
func LoadApp(path string) (App, error) {
	var cfg App
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// NewNormalizer builds the shared text normalizer from a stoplist file.
// The stopword list is a required resource: a missing or unreadable file is
// fatal at pipeline start, the pipeline must not silently run unfiltered.
func NewNormalizer(stoplistPath string) (*textnorm.Normalizer, error) {
	if stoplistPath == "" {
		return nil, fmt.Errorf("stoplist path required: %w", internalerr.ErrInvalidConfig)
	}
	sl, err := LoadStoplist(stoplistPath)
	if err != nil {
		return nil, fmt.Errorf("load stoplist: %w", err)
	}
	return textnorm.New(sl.Terms)
}
