package delivery

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/pipeline"
)

const insertReport = `
INSERT INTO reports (id, template, failed, farmer, claim_id, identifiers, document, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING`

// Archive stores reports in PostgreSQL. The insurance identifiers are kept in
// their own columns for claim-signal lookups.
type Archive struct {
	db *sql.DB
}

func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db}
}

func (a *Archive) Name() string { return "postgres" }

func (a *Archive) Deliver(ctx context.Context, r *pipeline.Result) error {
	ids, err := json.Marshal(r.Identifiers)
	if err != nil {
		return errors.NewReportArchiveFailedError(fmt.Errorf("encode identifiers: %w", err))
	}

	_, err = a.db.ExecContext(ctx, insertReport,
		r.ReportID,
		r.Template,
		r.Failed,
		identifier(r, "farmer"),
		identifier(r, "claimId"),
		string(ids),
		r.Encoded,
		r.Timestamp,
	)
	if err != nil {
		return errors.NewReportArchiveFailedError(err)
	}
	return nil
}

func identifier(r *pipeline.Result, key string) sql.NullString {
	v, ok := r.Identifiers[key]
	if !ok {
		return sql.NullString{}
	}
	s := fmt.Sprint(v)
	return sql.NullString{String: s, Valid: s != ""}
}
