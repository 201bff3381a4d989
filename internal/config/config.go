// Package config loads the core's runtime configuration: where its
// on-disk block storage lives, how large a block may grow before it's
// flushed, and how verbosely it logs. Loading follows the teacher's
// own config loader shape: a .env file is loaded first (if present),
// then a YAML file is parsed over a set of defaults, then
// ${VAR}/$VAR references in string fields are expanded against the
// environment.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config is the core's top-level configuration.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Storage  StorageConfig  `yaml:"storage"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// StorageConfig controls the on-disk block layer (spec §4.6).
type StorageConfig struct {
	DataDir     string `yaml:"data_dir"`
	BlockSize   int    `yaml:"block_size"`
	MemtableCap int    `yaml:"memtable_cap"`
}

// SnapshotConfig controls where benchmark snapshots are written.
type SnapshotConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads configPath as YAML over defaultConfig(), expanding any
// ${VAR}/$VAR references in string fields against the environment. A
// missing configPath is not an error: the defaults (with env expansion
// applied) are returned as-is, mirroring the teacher's "config file is
// optional" loader behavior.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load environment file: %w", err)
	}

	cfg := defaultConfig()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		expandEnvVars(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(cfg)
	expandEnvVars(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Storage: StorageConfig{
			DataDir:     "./data",
			BlockSize:   4096,
			MemtableCap: 1 << 20,
		},
		Snapshot: SnapshotConfig{
			Dir: "./snapshots",
		},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "./data"
	}
	if cfg.Storage.BlockSize == 0 {
		cfg.Storage.BlockSize = 4096
	}
	if cfg.Storage.MemtableCap == 0 {
		cfg.Storage.MemtableCap = 1 << 20
	}
	if cfg.Snapshot.Dir == "" {
		cfg.Snapshot.Dir = "./snapshots"
	}
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

var envRefPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$(\w+)`)

func expandString(s string) string {
	return envRefPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envRefPattern.FindStringSubmatch(match)
		if name[1] != "" {
			return os.Getenv(name[1])
		}
		return os.Getenv(name[2])
	})
}

func expandEnvVars(cfg *Config) {
	cfg.LogLevel = expandString(cfg.LogLevel)
	cfg.Storage.DataDir = expandString(cfg.Storage.DataDir)
	cfg.Snapshot.Dir = expandString(cfg.Snapshot.Dir)
}
