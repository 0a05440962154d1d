package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/AnyUserName/jpegtx/internal/jpegtran"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// JPEGTX__MAX_MEMORY=64M.
const EnvPrefix = "JPEGTX__"

// Config is the merged file + environment configuration.
type Config struct {
	Tool      string `koanf:"tool"`
	MaxMemory string `koanf:"max_memory"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"` // text|json
	Workers   int    `koanf:"workers"`
	Recipe    string `koanf:"recipe"`
	Verify    bool   `koanf:"verify"`
}

// DefaultFile is read from the working directory when no config file is
// named explicitly.
const DefaultFile = "jpegtx.yml"

// Load merges the YAML file at path with environment variables. The file
// must exist; an empty path loads environment and defaults only.
func Load(path string) (Config, error) {
	return load(path, false)
}

// LoadOptional is Load for an implicit path such as DefaultFile: a
// missing file is not an error.
func LoadOptional(path string) (Config, error) {
	return load(path, true)
}

func load(path string, optional bool) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil && !(optional && errors.Is(err, fs.ErrNotExist)) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(c *Config) {
	if c.Tool == "" {
		c.Tool = jpegtran.DefaultBinary
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat != "json" {
		c.LogFormat = "text"
	}
	if c.Recipe == "" {
		c.Recipe = "web"
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
}

// Settings returns the jpegtran invocation settings.
func (c Config) Settings() jpegtran.Settings {
	return jpegtran.Settings{Binary: c.Tool, MaxMemory: c.MaxMemory}
}
