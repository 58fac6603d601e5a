package rest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dfryer1193/teamdojo/dojo/application"
	"github.com/dfryer1193/teamdojo/dojo/persistence"
	"github.com/dfryer1193/teamdojo/shared/db/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the real services over a fresh SQLite database
func newTestRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()

	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, database.Connect(context.Background()))
	t.Cleanup(func() { database.Close() })

	router := gin.New()
	NewApi(router,
		NewImageHandler(application.NewImageService(persistence.NewImageRepository(database.DB())), DefaultMaxPageSize),
		NewTrainingHandler(application.NewTrainingService(persistence.NewTrainingRepository(database.DB())), DefaultMaxPageSize),
	)
	NewManagementApi(router, database.DB(), nil)

	return router, database.DB()
}

func doRequest(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
