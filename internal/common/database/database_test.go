package database

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"agri-report-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Elasticsearch
// ==========================

type esRecorder struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func newFakeES(t *testing.T, existing map[string]bool) (*httptest.Server, *esRecorder) {
	rec := &esRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, r.Method+" "+r.URL.Path)
		rec.bodies = append(rec.bodies, string(body))
		rec.mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		index := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")[0]
		switch {
		case r.Method == http.MethodHead && index != "":
			if existing[index] {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case r.Method == http.MethodPut && !strings.Contains(r.URL.Path, "/_doc/"):
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		case strings.Contains(r.URL.Path, "/_doc/"):
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"result":"created"}`))
		default:
			_, _ = w.Write([]byte(`{"version":{"number":"8.11.0"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestElasticsearchClient_IndexLifecycle(t *testing.T) {
	srv, rec := newFakeES(t, map[string]bool{"existing": true})

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, es.Info(ctx))

	ok, err := es.IndexExists(ctx, "existing")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = es.IndexExists(ctx, "agri-reports")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, es.CreateIndex(ctx, "agri-reports", `{"mappings":{}}`))
	require.NoError(t, es.IndexDocument(ctx, "agri-reports", "r-1", []byte(`{"template":"community-alert"}`)))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Contains(t, rec.requests, "PUT /agri-reports")
	assert.Contains(t, rec.requests, "PUT /agri-reports/_doc/r-1")
	assert.Contains(t, rec.bodies, `{"template":"community-alert"}`)
}

// ==========================
// Redis
// ==========================

func TestRedisClient_RoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))
	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))

	got, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, client.Del(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

// ==========================
// PostgreSQL
// ==========================

func TestPostgresClient_Exec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	client := NewPostgresFromDB(db)
	defer client.Close()

	mock.ExpectExec("DELETE FROM reports").WithArgs("r-1").WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := client.Exec(context.Background(), "DELETE FROM reports WHERE id = $1", "r-1")
	require.NoError(t, err)
	n, _ := res.RowsAffected()
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
