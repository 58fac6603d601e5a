package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dfryer1193/teamdojo/internal/config"
	"github.com/dfryer1193/teamdojo/shared/db/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, metrics bool) *config.Config {
	t.Helper()
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	cfg.Database.Path = filepath.Join(t.TempDir(), "teamdojo.db")
	cfg.Metrics.Enabled = metrics
	return cfg
}

func connect(t *testing.T, cfg *config.Config) *sqlite.SQLiteDB {
	t.Helper()
	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.Database.Path})
	require.NoError(t, database.Connect(context.Background()))
	t.Cleanup(func() { database.Close() })
	return database
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewRouter_WithMetrics(t *testing.T) {
	cfg := testConfig(t, true)
	router := newRouter(cfg, connect(t, cfg))

	rec := get(router, "/api/images/count")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", strings.TrimSpace(rec.Body.String()))

	rec = get(router, "/management/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP","components":{"db":{"status":"UP"}}}`, rec.Body.String())

	rec = get(router, "/management/prometheus")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `teamdojo_http_requests_total{method="GET",route="/api/images/count",status="200"} 1`)
	assert.Contains(t, body, `go_sql_max_open_connections{db_name="teamdojo"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNewRouter_WithoutMetrics(t *testing.T) {
	cfg := testConfig(t, false)
	router := newRouter(cfg, connect(t, cfg))

	assert.Equal(t, http.StatusNotFound, get(router, "/management/prometheus").Code)
	assert.Equal(t, http.StatusOK, get(router, "/api/trainings").Code)
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServe_StopsWhenContextIsCancelled(t *testing.T) {
	cfg := testConfig(t, false)
	cfg.Server.Port = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg)
	}()

	healthURL := fmt.Sprintf("http://127.0.0.1:%d/management/health", cfg.Server.Port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return after its context was cancelled")
	}
}

func TestMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrated.db")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"migrate", "--db", path})
	require.NoError(t, cmd.Execute())

	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: path})
	require.NoError(t, database.Connect(context.Background()))
	defer database.Close()

	version, err := database.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"migrate", "--db", filepath.Join(t.TempDir(), "x.db"), "--log-level", "chatty"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
