package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/escala-app/escala/auth"
	"github.com/escala-app/escala/connectors/clients/roster"
	"github.com/escala-app/escala/core/metrics"
	"github.com/escala-app/escala/core/schedule"
)

type Config struct {
	Gateway roster.Config   `json:"gateway"`
	Auth    auth.Conf       `json:"auth"`
	Board   schedule.Config `json:"board"`
	Metrics metrics.Config  `json:"metrics"`
	API     APIConfig       `json:"api"`
}

// APIConfig defines settings for the board's own HTTP surface.
type APIConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("ESCALA_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "escala_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Gateway.SetDefaults()
	cfg.Board.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.Gateway.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Board.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
