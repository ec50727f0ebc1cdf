package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"practice-quiz-service/internal/domain"
)

// Store backends selectable with store.backend.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Store struct {
		Backend string `yaml:"backend"`
	} `yaml:"store"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL              string `yaml:"ttl"`
		SessionTTL       string `yaml:"sessionTTL"`
		RevealMode       string `yaml:"revealMode"`
		ShuffleOptions   bool   `yaml:"shuffleOptions"`
		ShuffleQuestions bool   `yaml:"shuffleQuestions"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Backend resolves the collection store backend. Without an explicit
// choice Postgres wins over Redis, and Redis over the in-memory store.
func (c Config) Backend() string {
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite, BackendRedis, BackendPostgres:
		return c.Store.Backend
	}
	switch {
	case c.Postgres.URL != "":
		return BackendPostgres
	case c.Redis.Addr != "":
		return BackendRedis
	case c.SQLite.Path != "":
		return BackendSQLite
	}
	return BackendMemory
}

// RevealMode returns the configured reveal policy, onSubmit by default.
func (c Config) RevealMode() domain.RevealMode {
	return domain.ParseRevealMode(c.Quiz.RevealMode)
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
