package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goSentinel "github.com/MrEthical07/goSentinel"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := goSentinel.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sha512", cfg.Digest.Algorithm)
	assert.False(t, cfg.Defaults.Disabled)
	assert.False(t, cfg.Audit.Enabled)
}

func TestRegistryFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constants.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[constants.FOURTEEN]
bytes = "14"

[constants.NOTHING]
int = 0
bool = false
`), 0o600))

	cfg, err := goSentinel.LoadConfig(path)
	require.NoError(t, err)

	r, err := goSentinel.New().WithConfig(cfg).Build()
	require.NoError(t, err)
	defer r.Close()

	fourteen := r.MustGet("FOURTEEN")
	assert.True(t, fourteen.Equal(14))
	assert.True(t, fourteen.Equal("14"))

	b, err := r.MustGet("NOTHING").Bool()
	require.NoError(t, err)
	assert.False(t, b)
}

func TestConflictingConfigFileFailsBuild(t *testing.T) {
	cfg, err := goSentinel.ParseConfig([]byte(`
[constants.ONE]
int = 1
bool = false
`))
	require.NoError(t, err, "conflicts are detected when bindings are applied")

	_, err = goSentinel.New().WithConfig(cfg).Build()
	assert.ErrorIs(t, err, goSentinel.ErrBoolConflict)
}
