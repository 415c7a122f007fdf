package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadStoplist(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stoplist.yaml", "terms:\n  - the\n  - a\n  - and\n")

	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("LoadStoplist: %v", err)
	}
	if len(sl.Terms) != 3 || sl.Terms[0] != "the" {
		t.Errorf("Terms = %v", sl.Terms)
	}
}

func TestLoadStoplistMissingFile(t *testing.T) {
	if _, err := LoadStoplist(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadApp(t *testing.T) {
	content := `dataset: imdb.csv
output_dir: out
warehouse_path: movies.db
stoplist: stopwords.yaml
keywords_per_movie: 5
top_k: 3
llm:
  base_url: http://localhost:8080/v1
  chat_model: gpt-4o-mini
  embedding_model: text-embedding-ada-002
`
	path := writeFile(t, t.TempDir(), "app.yaml", content)

	cfg, err := LoadApp(path)
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}
	if cfg.DatasetPath != "imdb.csv" || cfg.WarehousePath != "movies.db" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.KeywordsPerMovie != 5 || cfg.LLM.ChatModel != "gpt-4o-mini" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestNewNormalizer(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stoplist.yaml", "terms: [the, a]\n")

	n, err := NewNormalizer(path)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	if got := n.Normalize("The story"); got != "story" {
		t.Errorf("Normalize = %q, want %q", got, "story")
	}
}

func TestNewNormalizerRequiresStoplist(t *testing.T) {
	if _, err := NewNormalizer(""); err == nil {
		t.Fatal("expected error for empty stoplist path")
	}
	if _, err := NewNormalizer(filepath.Join(t.TempDir(), "gone.yaml")); err == nil {
		t.Fatal("expected error for missing stoplist file")
	}
}
