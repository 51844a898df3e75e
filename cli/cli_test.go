package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/grand/log"
	"github.com/ardnew/grand/pkg"
)

func TestRun(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	saved := log.Default()
	t.Cleanup(func() { log.SetDefault(saved) })

	require.NoError(t, mkdirAllRequired())
	require.NoError(t, os.WriteFile(pkg.ConfigFile(), []byte("log:\n  level: warn\n"), 0o600))

	exit := func(code int) { t.Fatalf("unexpected exit %d", code) }

	require.NoError(t, Run(t.Context(), exit, "fmt", "1..2"))
	assert.Equal(t, log.LevelWarn, log.Default().Level())

	// Flags override the configuration file.
	require.NoError(t, Run(t.Context(), exit, "--log-level=error", "tokens", "1"))
	assert.Equal(t, log.LevelError, log.Default().Level())

	assert.Error(t, Run(t.Context(), exit, "gen", "[1"))
}

func TestConfigPath(t *testing.T) {
	got := configPath(".json")

	assert.Equal(t, filepath.Dir(pkg.ConfigFile()), filepath.Dir(got))
	assert.Equal(t, "config.json", filepath.Base(got))
}
