package main

import (
	"fmt"

	"agri-report-workers/internal/bootstrap"
	"agri-report-workers/internal/common/database"

	"github.com/spf13/cobra"
)

func newProvisionCmd(g *globalOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the reports table, claim index and search index if missing",
		Long: `provision runs each step only when its check reports it missing, so it is
safe to repeat. Backends without connection settings are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			log := g.logger()
			ctx := cmd.Context()

			var pg *database.PostgresClient
			if cfg.Database.Postgres.Host != "" {
				if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
					return fmt.Errorf("postgres: %w", err)
				}
				defer pg.Close()
				if err := pg.Ping(ctx); err != nil {
					return fmt.Errorf("postgres: %w", err)
				}
			}

			var es *database.ElasticsearchClient
			if cfg.Database.Elasticsearch.GetURL() != "" {
				if es, err = database.NewElasticsearch(cfg.Database.Elasticsearch); err != nil {
					return fmt.Errorf("elasticsearch: %w", err)
				}
				if err := es.Info(ctx); err != nil {
					return fmt.Errorf("elasticsearch: %w", err)
				}
			}

			p := bootstrap.NewProvisioner(pg, es, cfg.Database.Elasticsearch.ReportIndex, log)
			if dryRun {
				return writeValue(cmd.OutOrStdout(), g.output, map[string]interface{}{"steps": p.Steps()})
			}
			outcomes, err := p.Run(ctx)
			if werr := writeValue(cmd.OutOrStdout(), g.output, map[string]interface{}{"outcomes": outcomes}); werr != nil {
				return werr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the planned steps without running them")
	return cmd
}
