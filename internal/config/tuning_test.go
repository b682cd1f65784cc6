package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmptyTuningConfigDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if cfg.Budget != nil || cfg.VerifyBudget != nil {
		t.Errorf("Expected all fields nil, got %+v", cfg)
	}
	if cfg.GetBudget() != 20000 {
		t.Errorf("GetBudget() = %d, want 20000", cfg.GetBudget())
	}
	if cfg.GetVerifyBudget() != 5000 {
		t.Errorf("GetVerifyBudget() = %d, want 5000", cfg.GetVerifyBudget())
	}
}

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "budget": 2500,
  "verify_budget": 10000
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Budget == nil || *cfg.Budget != 2500 {
		t.Errorf("Expected Budget 2500, got %v", cfg.Budget)
	}
	if cfg.GetBudget() != 2500 {
		t.Errorf("GetBudget() = %d, want 2500", cfg.GetBudget())
	}
	if cfg.GetVerifyBudget() != 10000 {
		t.Errorf("GetVerifyBudget() = %d, want 10000", cfg.GetVerifyBudget())
	}
}

func TestLoadTuningConfigPartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	if err := os.WriteFile(configPath, []byte(`{"budget": 50}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetBudget() != 50 {
		t.Errorf("GetBudget() = %d, want 50", cfg.GetBudget())
	}
	// Omitted field falls back to the default.
	if cfg.VerifyBudget != nil {
		t.Errorf("Expected VerifyBudget nil, got %v", cfg.VerifyBudget)
	}
	if cfg.GetVerifyBudget() != 5000 {
		t.Errorf("GetVerifyBudget() = %d, want 5000", cfg.GetVerifyBudget())
	}
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("budget: 50"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadTuningConfig(configPath); err == nil {
		t.Fatal("Expected error for non-JSON extension, got nil")
	}
}

func TestLoadTuningConfigMissingFile(t *testing.T) {
	if _, err := LoadTuningConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}

func TestValidateRejectsNonPositiveBudgets(t *testing.T) {
	tmpDir := t.TempDir()

	cases := []struct {
		name string
		json string
	}{
		{"zero budget", `{"budget": 0}`},
		{"negative budget", `{"budget": -5}`},
		{"zero verify budget", `{"verify_budget": 0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, "bad.json")
			if err := os.WriteFile(configPath, []byte(tc.json), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}
			if _, err := LoadTuningConfig(configPath); err == nil {
				t.Fatal("Expected validation error, got nil")
			}
		})
	}
}
