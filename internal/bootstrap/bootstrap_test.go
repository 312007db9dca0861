package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/database"
	"agri-report-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRegistry = `{
  "version": "1.0.0",
  "templates": [
    {
      "id": "market-intelligence",
      "taskType": "market-intelligence",
      "arity": 4,
      "arguments": [{"name": "location"}, {"name": "cropType"}, {"name": "lat"}, {"name": "lon"}],
      "outputSchema": {"type": "object", "required": ["metadata"]}
    }
  ]
}`

func writeRegistry(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "template-registry.json")
	require.NoError(t, os.WriteFile(path, []byte(testRegistry), 0o644))
	return path
}

func TestOpen_NoBackends(t *testing.T) {
	cfg := &config.Config{}
	cfg.Pipeline.RegistryPath = writeRegistry(t)
	cfg.Pipeline.ValidateReports = true

	rt, err := Open(context.Background(), cfg, nil, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Postgres)
	assert.Nil(t, rt.Search)
	assert.Nil(t, rt.Redis)
	assert.Empty(t, rt.Fanout.Sinks())
	assert.Len(t, rt.Catalog.Names(), 5)
	require.NotNil(t, rt.Registry)
	assert.NoError(t, rt.Ready(context.Background()))

	tpl, err := rt.Catalog.Get("market-intelligence")
	require.NoError(t, err)
	result := rt.Runner.Run(context.Background(), tpl, []string{"Hat Yai", "corn", "7.0", "100.47"})
	assert.False(t, result.Failed, result.Message)
}

func TestOpen_MissingRegistry(t *testing.T) {
	cfg := &config.Config{}
	cfg.Pipeline.RegistryPath = filepath.Join(t.TempDir(), "missing.json")

	t.Run("tolerated without validation", func(t *testing.T) {
		rt, err := Open(context.Background(), cfg, nil, logger.NewTestLogger(t))
		require.NoError(t, err)
		defer rt.Close()
		assert.Nil(t, rt.Registry)
	})

	t.Run("fatal with validation", func(t *testing.T) {
		cfg.Pipeline.ValidateReports = true
		_, err := Open(context.Background(), cfg, nil, logger.NewTestLogger(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load template registry")
	})
}

func TestNewProvisioner(t *testing.T) {
	log := logger.NewTestLogger(t)

	assert.Empty(t, NewProvisioner(nil, nil, "", log).Steps())

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := NewProvisioner(database.NewPostgresFromDB(db), nil, "", log)
	assert.Equal(t, []string{"reports-table", "claim-index"}, p.Steps())
}
