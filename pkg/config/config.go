package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all configuration for the tool. Subcommands consume the
// subset of fields their flag sets define.
type Config struct {
	Path          string `koanf:"path"`
	Generate      bool   `koanf:"generate"`
	Clean         bool   `koanf:"clean"`
	Configuration string `koanf:"configuration"`
	Output        string `koanf:"output"`
	Watch         bool   `koanf:"watch"`
	Web           bool   `koanf:"web"`
	Port          int    `koanf:"port"`
	Verbosity     string `koanf:"verbosity"`
	VerboseCnt    int    `koanf:"verbose"`
}

// Load loads configuration from defaults, config file, environment variables,
// and flags. Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"path":          ".",
		"generate":      false,
		"clean":         false,
		"configuration": "",
		"output":        "",
		"watch":         false,
		"web":           false,
		"port":          8080,
		"verbosity":     "",
		"verbose":       0,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - xcgen.toml
	// Ignore errors here as the file might not exist
	_ = k.Load(file.Provider("xcgen.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: XCGEN_ (e.g., XCGEN_PORT=9090)
	if err := k.Load(env.Provider("XCGEN_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "XCGEN_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
