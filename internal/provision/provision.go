// Package provision prepares the storage the report sinks write to. Every step
// checks before it applies, so running it again is harmless.
package provision

import (
	"context"
	"database/sql"

	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/common/logger"
)

const createReportsTable = `
CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	template    TEXT NOT NULL,
	failed      BOOLEAN NOT NULL DEFAULT FALSE,
	farmer      TEXT,
	claim_id    TEXT,
	identifiers JSONB NOT NULL DEFAULT '{}'::jsonb,
	document    JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const createClaimIndex = `
CREATE INDEX IF NOT EXISTS reports_farmer_claims_idx
	ON reports (farmer, created_at DESC)
	WHERE template = 'insurance-verification'`

const relationExists = `SELECT to_regclass($1) IS NOT NULL`

const reportIndexMapping = `{
  "mappings": {
    "properties": {
      "reportId":    {"type": "keyword"},
      "template":    {"type": "keyword"},
      "identifiers": {"type": "object"},
      "generatedAt": {"type": "date"},
      "report":      {"type": "object", "enabled": false}
    }
  }
}`

// IndexAdmin is satisfied by database.ElasticsearchClient.
type IndexAdmin interface {
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, index, mapping string) error
}

// Step is one idempotent provisioning action.
type Step struct {
	Name  string
	Check func(ctx context.Context) (bool, error)
	Apply func(ctx context.Context) error
}

// Outcome records what happened to a step.
type Outcome struct {
	Step    string `json:"step" yaml:"step"`
	Applied bool   `json:"applied" yaml:"applied"`
}

type Provisioner struct {
	steps  []Step
	logger logger.Logger
}

// New builds the provisioning plan. Nil backends drop their steps.
func New(db *sql.DB, es IndexAdmin, reportIndex string, log logger.Logger) *Provisioner {
	p := &Provisioner{logger: log}
	if db != nil {
		p.steps = append(p.steps,
			Step{
				Name:  "reports-table",
				Check: relationCheck(db, "reports"),
				Apply: execStep(db, createReportsTable),
			},
			Step{
				Name:  "claim-index",
				Check: relationCheck(db, "reports_farmer_claims_idx"),
				Apply: execStep(db, createClaimIndex),
			},
		)
	}
	if es != nil && reportIndex != "" {
		p.steps = append(p.steps, Step{
			Name:  "report-index",
			Check: func(ctx context.Context) (bool, error) { return es.IndexExists(ctx, reportIndex) },
			Apply: func(ctx context.Context) error { return es.CreateIndex(ctx, reportIndex, reportIndexMapping) },
		})
	}
	return p
}

// Steps lists the planned step names.
func (p *Provisioner) Steps() []string {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.Name)
	}
	return names
}

// Run executes the steps in order and stops at the first failure.
func (p *Provisioner) Run(ctx context.Context) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(p.steps))
	for _, step := range p.steps {
		done, err := step.Check(ctx)
		if err != nil {
			return outcomes, errors.NewProvisioningFailedError(step.Name, err)
		}
		if done {
			p.logger.Debug("provisioning step already applied", map[string]interface{}{"step": step.Name})
			outcomes = append(outcomes, Outcome{Step: step.Name})
			continue
		}
		if err := step.Apply(ctx); err != nil {
			return outcomes, errors.NewProvisioningFailedError(step.Name, err)
		}
		p.logger.Info("provisioning step applied", map[string]interface{}{"step": step.Name})
		outcomes = append(outcomes, Outcome{Step: step.Name, Applied: true})
	}
	return outcomes, nil
}

func relationCheck(db *sql.DB, name string) func(context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		var exists bool
		err := db.QueryRowContext(ctx, relationExists, name).Scan(&exists)
		return exists, err
	}
}

func execStep(db *sql.DB, stmt string) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	}
}
