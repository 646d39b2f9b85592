// Package config loads the serve command's optional YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Redis configures the optional shared preference store.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Config is the serve configuration. Flags override file values.
type Config struct {
	Addr        string `yaml:"addr"`
	TutorialDir string `yaml:"tutorialDir"`
	DataDir     string `yaml:"dataDir"`
	AssetDir    string `yaml:"assetDir"`
	LogLevel    string `yaml:"logLevel"`
	Redis       *Redis `yaml:"redis"`
}

// Default returns the configuration used when no file and no flags are given.
func Default() Config {
	return Config{
		Addr:        ":8700",
		TutorialDir: "./tutorials",
		LogLevel:    "info",
	}
}

// Load reads path and overlays it on the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = Default().Addr
	}
	if cfg.TutorialDir == "" {
		cfg.TutorialDir = Default().TutorialDir
	}
	return cfg, nil
}
