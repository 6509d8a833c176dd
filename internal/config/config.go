// Package config loads studio configuration from an optional YAML file with
// environment overrides. Every field has a usable default so the binary runs
// with no config at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Models assigns a generation model to each role in the pipeline.
type Models struct {
	Script      string `yaml:"script"`
	Concepts    string `yaml:"concepts"`
	Idea        string `yaml:"idea"`
	Image       string `yaml:"image"`
	Video       string `yaml:"video"`
	VideoExtend string `yaml:"videoExtend"`
	Speech      string `yaml:"speech"`
}

// Config is the full studio configuration.
type Config struct {
	// Port the local studio server listens on.
	Port int `yaml:"port"`
	// DataDir holds the history database, generated assets and fonts.
	DataDir string `yaml:"dataDir"`
	Models  Models `yaml:"models"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Port:    8080,
		DataDir: filepath.Join(home, ".artie-studio"),
		Models: Models{
			Script:      "gemini-2.5-pro",
			Concepts:    "gemini-2.5-pro",
			Idea:        "gemini-2.5-flash",
			Image:       "imagen-4.0-generate-001",
			Video:       "veo-3.1-fast-generate-preview",
			VideoExtend: "veo-3.1-generate-preview",
			Speech:      "gemini-2.5-flash-preview-tts",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides (ARTIE_PORT, ARTIE_DATA_DIR). An empty path skips the
// file; a missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("ARTIE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("ARTIE_PORT %q is not a number: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("ARTIE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	return cfg, nil
}

// EnsureDataDir creates the data directory tree if needed.
func (c Config) EnsureDataDir() error {
	for _, dir := range []string{c.DataDir, filepath.Join(c.DataDir, "assets"), filepath.Join(c.DataDir, "fonts")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}
	return nil
}
