// Package config loads procon's runtime configuration from a YAML file
// merged with environment variable overrides, using koanf the same way the
// rest of the pack's configuration managers do.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from, and the remainder lower-cased for, every
// PROCON_-prefixed environment variable that overrides a config key.
const envPrefix = "PROCON_"

// Config is procon's runtime configuration: where the reference catalogue
// and precalculated tables live, how to reach the match server, and at
// what level to log.
type Config struct {
	ReferenceDir string `koanf:"reference_dir"`
	PrecalcPath  string `koanf:"precalc_path"`
	ServerURL    string `koanf:"server_url"`
	Token        string `koanf:"token"`
	LogLevel     string `koanf:"log_level"`
	Workers      int    `koanf:"workers"`
}

// Default returns the configuration used when neither a file nor an
// environment variable supplies a value.
func Default() Config {
	return Config{
		ReferenceDir: "./references",
		PrecalcPath:  "./precalc.json",
		ServerURL:    "https://procon.example.test",
		LogLevel:     "info",
		Workers:      0,
	}
}

// Load merges, in increasing precedence, the compiled-in defaults, the
// YAML file at path (skipped if empty or missing), and PROCON_-prefixed
// environment variables.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	defaults := Default()
	defaultsMap := map[string]interface{}{
		"reference_dir": defaults.ReferenceDir,
		"precalc_path":  defaults.PrecalcPath,
		"server_url":    defaults.ServerURL,
		"token":         defaults.Token,
		"log_level":     defaults.LogLevel,
		"workers":       defaults.Workers,
	}
	if err := k.Load(confmap.Provider(defaultsMap, "."), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: load file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", normalizeEnvKey), nil); err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	var out Config
	if err := k.Unmarshal("", &out); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return out, nil
}

// normalizeEnvKey turns PROCON_SERVER_URL into server_url, matching the
// koanf struct tags above.
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ToLower(s)
}
