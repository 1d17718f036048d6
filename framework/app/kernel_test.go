package app_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-plant/framework/app"
	"github.com/km-arc/go-plant/framework/config"
	"github.com/km-arc/go-plant/framework/plant"
)

type Person struct {
	FirstName string
	Tags      []string
}

// ── stub providers ────────────────────────────────────────────────────────────

type countingProvider struct {
	calls int
}

func (p *countingProvider) SetupPlant(pl *plant.Plant) error {
	p.calls++
	return plant.DefinePropertiesOf[Person](pl, plant.Attrs{"FirstName": "Leo", "Tags": []string{"a"}})
}

func newApp(t *testing.T, cfg *config.Config) (*app.Application, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a, err := app.NewWithConfig(cfg, &out)
	require.NoError(t, err)
	return a, &out
}

func defaultConfig() *config.Config {
	return &config.Config{Name: "test", LogLevel: "debug", LogFormat: "text"}
}

// ── Application ──────────────────────────────────────────────────────────────

func TestApplication_BootSetsUpProviders(t *testing.T) {
	a, out := newApp(t, defaultConfig())

	p := &countingProvider{}
	require.NoError(t, a.Register(p))
	assert.Equal(t, 0, p.calls, "providers wait for Boot")

	require.NoError(t, a.Boot())
	require.NoError(t, a.Boot())
	assert.Equal(t, 1, p.calls)
	assert.True(t, a.Providers.Booted())

	assert.Equal(t, "Leo", plant.MustCreate[Person](a.Plant).FirstName)
	assert.Contains(t, out.String(), "defined properties")
}

func TestApplication_DuplicateProviderIgnored(t *testing.T) {
	a, _ := newApp(t, defaultConfig())

	p := &countingProvider{}
	require.NoError(t, a.Register(p, p))
	require.NoError(t, a.Register(p))
	require.NoError(t, a.Boot())

	assert.Equal(t, 1, p.calls)
	assert.Len(t, a.Providers.Providers(), 1)
}

func TestApplication_RegisterAfterBootRunsImmediately(t *testing.T) {
	a, _ := newApp(t, defaultConfig())
	require.NoError(t, a.Boot())

	p := &countingProvider{}
	require.NoError(t, a.Register(p))
	assert.Equal(t, 1, p.calls)

	boom := errors.New("boom")
	err := a.Register(plant.ProviderFunc(func(*plant.Plant) error { return boom }))
	assert.ErrorIs(t, err, boom)
}

func TestApplication_BootReportsFailures(t *testing.T) {
	a, out := newApp(t, defaultConfig())

	require.NoError(t, a.Register(&countingProvider{}, &countingProvider{}))
	err := a.Boot()
	assert.ErrorIs(t, err, plant.ErrDuplicateRegistration)
	assert.Contains(t, out.String(), "blueprint setup failed")
}

func TestApplication_CopyLiteralsFromConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.CopyLiterals = true
	a, _ := newApp(t, cfg)
	require.NoError(t, a.Register(&countingProvider{}))
	require.NoError(t, a.Boot())

	first := plant.MustCreate[Person](a.Plant)
	first.Tags[0] = "changed"
	a.Flush()
	assert.Equal(t, "a", plant.MustCreate[Person](a.Plant).Tags[0])
}

func TestApplication_JSONLogs(t *testing.T) {
	cfg := defaultConfig()
	cfg.LogFormat = "json"
	a, out := newApp(t, cfg)
	require.NoError(t, a.Register(&countingProvider{}))
	require.NoError(t, a.Boot())

	assert.Contains(t, out.String(), `"@message":"defined properties"`)
}

func TestApplication_InvalidLogLevel(t *testing.T) {
	cfg := defaultConfig()
	cfg.LogLevel = "loud"

	_, err := app.NewWithConfig(cfg, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestApplication_InvalidLogFormat(t *testing.T) {
	cfg := defaultConfig()
	cfg.LogFormat = "yaml"

	_, err := app.NewWithConfig(cfg, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown log format "yaml"`)
}

func TestNew_LoadsConfig(t *testing.T) {
	t.Setenv("PLANT_NAME", "from-env")
	t.Setenv("PLANT_LOG_LEVEL", "off")

	a, err := app.New("testdata/none.env")
	require.NoError(t, err)
	assert.Equal(t, "from-env", a.Config.Name)
	assert.Equal(t, "from-env", a.Logger.Name())
}
