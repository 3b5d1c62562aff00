package app

import (
	"encoding/json"
	"os"

	"github.com/ashfield-docs/autoresolve/internal/resolve"
)

// Config is the on-disk .autoresolve/config.json shape: schema metadata
// plus the strategy assignments a merge run should apply (spec §3.3).
type Config struct {
	SchemaVersion int                    `json:"schemaVersion"`
	Settings      map[string]any         `json:"settings,omitempty"`
	Strategies    resolve.StrategyMap    `json:"strategies,omitempty"`
	Logging       LoggingSettings        `json:"logging,omitempty"`
}

// LoggingSettings mirrors the fields of logging.Config that a project is
// expected to override; zero values fall back to logging.DefaultConfig().
type LoggingSettings struct {
	Level         string `json:"level,omitempty"`
	OutputConsole bool   `json:"outputConsole,omitempty"`
	OutputFile    bool   `json:"outputFile,omitempty"`
	LogDirectory  string `json:"logDirectory,omitempty"`
}

// DefaultConfig returns a Config with no strategy overrides: every
// conflict recurses or is left as a residual (spec §3.3's default).
func DefaultConfig() *Config {
	return &Config{SchemaVersion: 1, Strategies: resolve.StrategyMap{}}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadOrDefault loads path if present, else returns DefaultConfig(). Any
// other read error (permissions, malformed JSON) is still returned.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

func Save(path string, c *Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
