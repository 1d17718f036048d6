package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every environment variable the config reads.
const Prefix = "PLANT_"

// Config holds the settings of a fixture application.
type Config struct {
	// Name labels log output.
	Name string `mapstructure:"name"`
	// LogLevel is an hclog level: trace | debug | info | warn | error | off.
	LogLevel string `mapstructure:"log_level"`
	// LogFormat is text or json.
	LogFormat string `mapstructure:"log_format"`
	// CopyLiterals deep-copies collection and struct defaults per build.
	CopyLiterals bool `mapstructure:"copy_literals"`
}

// Load reads .env files (if present) and builds a Config from PLANT_*
// environment variables on top of the defaults.
// Call once at bootstrap: cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env is optional; real environment variables still apply
	_ = godotenv.Load(files...)

	raw := map[string]any{
		"name":          "plant",
		"log_level":     "warn",
		"log_format":    "text",
		"copy_literals": false,
	}
	for _, kv := range os.Environ() {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, Prefix) || val == "" {
			continue
		}
		raw[strings.ToLower(strings.TrimPrefix(key, Prefix))] = val
	}

	cfg := &Config{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("config: decode %s* variables: %w", Prefix, err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	return cfg, nil
}

// JSONLogs reports whether logs should be written as JSON.
func (c *Config) JSONLogs() bool { return c.LogFormat == "json" }
