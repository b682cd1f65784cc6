package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig holds the search parameters the command line tools accept
// from a JSON file. All fields are pointers so a partial file only
// overrides what it names; the Get* methods supply defaults for the rest.
type TuningConfig struct {
	// Budget caps the points the entry workflow may evaluate per
	// candidate search.
	Budget *int `json:"budget,omitempty"`

	// VerifyBudget caps the points a catalog verification may evaluate
	// per star.
	VerifyBudget *int `json:"verify_budget,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.Budget != nil && *c.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %d", *c.Budget)
	}
	if c.VerifyBudget != nil && *c.VerifyBudget <= 0 {
		return fmt.Errorf("verify_budget must be positive, got %d", *c.VerifyBudget)
	}
	return nil
}

// GetBudget returns the budget value or the default.
func (c *TuningConfig) GetBudget() int {
	if c.Budget == nil {
		return 20000
	}
	return *c.Budget
}

// GetVerifyBudget returns the verify_budget value or the default.
func (c *TuningConfig) GetVerifyBudget() int {
	if c.VerifyBudget == nil {
		return 5000
	}
	return *c.VerifyBudget
}
