package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Backend struct {
		BaseURL       string `yaml:"base_url" json:"base_url"`
		APIKeyAccount string `yaml:"api_key_account" json:"api_key_account"`
	} `yaml:"backend" json:"backend"`

	Polling struct {
		SnapshotSeconds   int `yaml:"snapshot_seconds" json:"snapshot_seconds"`
		RentalsTTLSeconds int `yaml:"rentals_ttl_seconds" json:"rentals_ttl_seconds"`
	} `yaml:"polling" json:"polling"`

	Search struct {
		MaxResults int `yaml:"max_results" json:"max_results"`
	} `yaml:"search" json:"search"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Default returns the built-in configuration used when no user config file
// exists yet. The backend base URL is intentionally empty: the engine serves
// whatever snapshot it has until one is configured.
func Default() Config {
	var cfg Config
	cfg.App.Port = 38472
	cfg.App.DataDir = "."
	cfg.Polling.SnapshotSeconds = 120
	cfg.Polling.RentalsTTLSeconds = 300
	cfg.Search.MaxResults = 200
	return cfg
}
