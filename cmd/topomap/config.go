package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the optional topomap.yaml read at startup.  Flags override its values.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
	Repl    ReplConfig    `yaml:"repl"`
}

type CatalogConfig struct {
	Path     string `yaml:"path"`
	ReadOnly bool   `yaml:"read_only"`
}

type LogConfig struct {
	Verbosity int  `yaml:"verbosity"`
	Color     bool `yaml:"color"`
}

type ReplConfig struct {
	Startup string `yaml:"startup"` // script run before the first prompt
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Verbosity: 0,
			Color:     true,
		},
	}
}

// LoadConfig reads the config at path over the defaults.
// A missing file is not an error unless mustExist is set.
func LoadConfig(path string, mustExist bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %q", path)
	}
	return cfg, nil
}
