package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides, e.g. DRS_STORE__BACKEND=redis.
const EnvPrefix = "DRS_"

type Config struct {
	Data       DataConfig       `json:"data"`
	Store      StoreConfig      `json:"store"`
	Day        DayConfig        `json:"day"`
	Fleet      FleetConfig      `json:"fleet"`
	Loading    LoadingConfig    `json:"loading"`
	Correction CorrectionConfig `json:"correction"`
	Server     ServerConfig     `json:"server"`
}

// Load reads an optional YAML or JSON file, then DRS_ environment overrides.
// A .env file in the working directory is applied first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("load config: unsupported format %q", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load config: env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) SetDefaults() {
	c.Data.SetDefaults()
	c.Store.SetDefaults()
	c.Day.SetDefaults()
	c.Fleet.SetDefaults()
	c.Loading.SetDefaults()
	c.Correction.SetDefaults()
	c.Server.SetDefaults()
}

func (c Config) Validate() error {
	for name, v := range map[string]interface{ Validate() error }{
		"store":      c.Store,
		"day":        c.Day,
		"fleet":      c.Fleet,
		"loading":    c.Loading,
		"correction": c.Correction,
	} {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Source CSV files.
type DataConfig struct {
	Addresses string `json:"addresses"`
	Distances string `json:"distances"`
	Packages  string `json:"packages"`
}

func (c *DataConfig) SetDefaults() {
	if c.Addresses == "" {
		c.Addresses = "data/locations.csv"
	}
	if c.Distances == "" {
		c.Distances = "data/distances.csv"
	}
	if c.Packages == "" {
		c.Packages = "data/packages.csv"
	}
}

type ServerConfig struct {
	Port string `json:"port"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
}
