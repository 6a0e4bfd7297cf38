package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultProviderModel(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Provider.Model != "mistral" {
		t.Errorf("Default model = %q, want %q", cfg.Provider.Model, "mistral")
	}
	if cfg.Provider.BaseURL != "http://localhost:11434" {
		t.Errorf("Default base_url = %q, want local ollama", cfg.Provider.BaseURL)
	}
}

func TestDefaultThresholds(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Brain.SimilarityThreshold != 0.6 {
		t.Errorf("similarity_threshold = %v, want 0.6", cfg.Brain.SimilarityThreshold)
	}
	if cfg.Brain.PruneMaxAgeDays != 30 {
		t.Errorf("prune_max_age_days = %d, want 30", cfg.Brain.PruneMaxAgeDays)
	}
	if cfg.Brain.MinFactTokens != 3 {
		t.Errorf("min_fact_tokens = %d, want 3", cfg.Brain.MinFactTokens)
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Brain.SimilarityThreshold = 1.5

	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted similarity_threshold > 1")
	}
}

func TestValidateFixesUpZeroTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider.TimeoutSeconds = 0
	cfg.Search.TimeoutSeconds = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Provider.TimeoutSeconds != 10 {
		t.Errorf("provider timeout = %d, want 10", cfg.Provider.TimeoutSeconds)
	}
	if cfg.Search.TimeoutSeconds != 5 {
		t.Errorf("search timeout = %d, want 5", cfg.Search.TimeoutSeconds)
	}
}

func TestExpandEnv(t *testing.T) {
	os.Setenv("JARVIS_TEST_DIR", "/tmp/jarvis_data")
	defer os.Unsetenv("JARVIS_TEST_DIR")

	got := expandEnv("$JARVIS_TEST_DIR/knowledge")
	if got != "/tmp/jarvis_data/knowledge" {
		t.Errorf("expandEnv = %q", got)
	}

	// Unknown vars are left untouched
	got = expandEnv("$DOES_NOT_EXIST_XYZ/x")
	if got != "$DOES_NOT_EXIST_XYZ/x" {
		t.Errorf("expandEnv rewrote unknown var: %q", got)
	}
}

func TestDefaultYAMLRoundTrip(t *testing.T) {
	data, err := defaultYAML()
	if err != nil {
		t.Fatalf("defaultYAML failed: %v", err)
	}
	if !strings.Contains(string(data), "base_url") {
		t.Errorf("default yaml missing provider section:\n%s", data)
	}
	if !strings.HasPrefix(string(data), "# jarvis configuration") {
		t.Errorf("default yaml missing header")
	}
}

func TestLoadDoesNotLeakStateBetweenCalls(t *testing.T) {
	// Keep the user's real config dir out of the search path.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	withFile := t.TempDir()
	yaml := "provider:\n  model: llama3\n"
	if err := os.WriteFile(filepath.Join(withFile, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	t.Chdir(withFile)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider.Model != "llama3" {
		t.Fatalf("model = %q, want llama3 from file", cfg.Provider.Model)
	}

	// A second load from a directory without a config file must fall back to
	// defaults instead of seeing values from the first load.
	t.Chdir(t.TempDir())
	cfg, err = Load()
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if cfg.Provider.Model != "mistral" {
		t.Errorf("model = %q, want default mistral", cfg.Provider.Model)
	}
}

func TestDataPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/tmp/jarvis"

	if got := cfg.KnowledgePath(); got != "/tmp/jarvis/knowledge.json" {
		t.Errorf("KnowledgePath = %q", got)
	}
	if got := cfg.MemoryPath(); got != "/tmp/jarvis/memory.json" {
		t.Errorf("MemoryPath = %q", got)
	}
	if got := cfg.TrainLogPath(); got != "/tmp/jarvis/autotrain_log.csv" {
		t.Errorf("TrainLogPath = %q", got)
	}
}
