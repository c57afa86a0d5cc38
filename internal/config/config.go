package config

import (
	"os"
	"time"
	// zone names resolve even on hosts without zoneinfo
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		SeedTTL  string `yaml:"seed_ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Session struct {
		TTL string `yaml:"ttl"`
	} `yaml:"session"`
	Game struct {
		// Timezone decides when a new calendar day starts for daily quests and streaks.
		Timezone     string `yaml:"timezone"`
		AssetBaseURL string `yaml:"asset_base_url"`
	} `yaml:"game"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Location resolves the game time zone, falling back to the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Game.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Game.Timezone)
}
