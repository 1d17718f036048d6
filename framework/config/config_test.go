package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-plant/framework/config"
)

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("testdata/empty.env")
	require.NoError(t, err)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Name", cfg.Name, "plant"},
		{"LogLevel", cfg.LogLevel, "warn"},
		{"LogFormat", cfg.LogFormat, "text"},
		{"CopyLiterals", cfg.CopyLiterals, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.False(t, cfg.JSONLogs())
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("PLANT_NAME", "fixtures")
	t.Setenv("PLANT_LOG_LEVEL", "TRACE")
	t.Setenv("PLANT_LOG_FORMAT", "json")
	t.Setenv("PLANT_COPY_LITERALS", "true")

	cfg, err := config.Load("testdata/empty.env")
	require.NoError(t, err)

	assert.Equal(t, "fixtures", cfg.Name)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.JSONLogs())
	assert.True(t, cfg.CopyLiterals)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	t.Cleanup(func() {
		os.Unsetenv("PLANT_NAME")
		os.Unsetenv("PLANT_LOG_LEVEL")
	})

	cfg, err := config.Load("testdata/plant.env")
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Name)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingEnvFileIsNotFatal(t *testing.T) {
	cfg, err := config.Load("testdata/does-not-exist.env")
	require.NoError(t, err)
	assert.Equal(t, "plant", cfg.Name)
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("PLANT_COPY_LITERALS", "maybe")

	_, err := config.Load("testdata/empty.env")
	assert.Error(t, err)
}
