package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "./teamdojo.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, 2000, cfg.Pagination.MaxSize)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "teamdojo.yaml")
	content := `
server:
  port: 9090
  shutdowntimeout: 10s
database:
  path: /var/lib/teamdojo/dojo.db
log:
  level: debug
  pretty: true
pagination:
  maxsize: 50
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	cfg, err := Load(New(), file)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/var/lib/teamdojo/dojo.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, 50, cfg.Pagination.MaxSize)
	assert.True(t, cfg.Metrics.Enabled, "keys missing from the file keep their defaults")
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TEAMDOJO_SERVER_PORT", "7070")
	t.Setenv("TEAMDOJO_METRICS_ENABLED", "false")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")

	chdir(t, t.TempDir())
	t.Setenv("TEAMDOJO_PAGINATION_MAXSIZE", "0")
	_, err = Load(New(), "")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
