package provision

import (
	"context"
	"fmt"
	"testing"

	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndexAdmin struct {
	exists  bool
	created []string
}

func (f *fakeIndexAdmin) IndexExists(context.Context, string) (bool, error) { return f.exists, nil }
func (f *fakeIndexAdmin) CreateIndex(_ context.Context, index, _ string) error {
	f.created = append(f.created, index)
	return nil
}

func existsRow(v bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(v)
}

func TestProvisioner_AppliesMissingSteps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT to_regclass").WithArgs("reports").WillReturnRows(existsRow(false))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS reports").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT to_regclass").WithArgs("reports_farmer_claims_idx").WillReturnRows(existsRow(false))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS reports_farmer_claims_idx").WillReturnResult(sqlmock.NewResult(0, 0))

	es := &fakeIndexAdmin{}
	p := New(db, es, "agri-reports", logger.NewTestLogger(t))
	assert.Equal(t, []string{"reports-table", "claim-index", "report-index"}, p.Steps())

	outcomes, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Outcome{
		{Step: "reports-table", Applied: true},
		{Step: "claim-index", Applied: true},
		{Step: "report-index", Applied: true},
	}, outcomes)
	assert.Equal(t, []string{"agri-reports"}, es.created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvisioner_SkipsExisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT to_regclass").WithArgs("reports").WillReturnRows(existsRow(true))
	mock.ExpectQuery("SELECT to_regclass").WithArgs("reports_farmer_claims_idx").WillReturnRows(existsRow(true))

	es := &fakeIndexAdmin{exists: true}
	outcomes, err := New(db, es, "agri-reports", logger.NewTestLogger(t)).Run(context.Background())
	require.NoError(t, err)
	for _, o := range outcomes {
		assert.False(t, o.Applied, o.Step)
	}
	assert.Empty(t, es.created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvisioner_StopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT to_regclass").WithArgs("reports").WillReturnRows(existsRow(false))
	mock.ExpectExec("CREATE TABLE").WillReturnError(fmt.Errorf("permission denied"))

	outcomes, err := New(db, nil, "", logger.NewTestLogger(t)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeProvisioningFailed))
	assert.Empty(t, outcomes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvisioner_NoBackends(t *testing.T) {
	p := New(nil, nil, "agri-reports", logger.NewTestLogger(t))
	outcomes, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}
