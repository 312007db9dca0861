package providers

import (
	"context"
	"database/sql"
	"time"

	"agri-report-workers/internal/models"
)

const claimsProvider = "claims"

// suspiciousWindow is how recently another claim by the same farmer must have
// been archived for the new claim's timing to be flagged.
const suspiciousWindow = 24 * time.Hour

const priorClaimsQuery = `
SELECT COUNT(*), COALESCE(MAX(created_at), 'epoch'::timestamptz)
FROM reports
WHERE template = 'insurance-verification'
  AND failed = FALSE
  AND farmer = $1
  AND claim_id <> $2`

// PostgresClaimSignals derives fraud hints from previously archived
// insurance-verification reports.
type PostgresClaimSignals struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresClaimSignals(db *sql.DB, now func() time.Time) *PostgresClaimSignals {
	if now == nil {
		now = time.Now
	}
	return &PostgresClaimSignals{db: db, now: now}
}

func (p *PostgresClaimSignals) Signals(ctx context.Context, claimID, farmer string, _ time.Time) (models.ClaimSignals, error) {
	var (
		count  int
		latest time.Time
	)
	err := p.db.QueryRowContext(ctx, priorClaimsQuery, farmer, claimID).Scan(&count, &latest)
	if err := wrapError(claimsProvider, err); err != nil {
		return models.ClaimSignals{}, err
	}

	return models.ClaimSignals{
		SuspiciousTiming: count > 0 && p.now().Sub(latest) < suspiciousWindow,
		RepeatedClaims:   count > 0,
		PriorClaims:      count,
	}, nil
}
