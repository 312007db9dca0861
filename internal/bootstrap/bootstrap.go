// Package bootstrap connects the configured backends and assembles the report
// runtime shared by the worker manager and the report API.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agri-report-workers/internal/catalog"
	"agri-report-workers/internal/common/aws"
	"agri-report-workers/internal/common/camunda"
	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/database"
	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/common/observability"
	"agri-report-workers/internal/common/validation"
	"agri-report-workers/internal/delivery"
	"agri-report-workers/internal/pipeline"
	"agri-report-workers/internal/providers"
	"agri-report-workers/internal/provision"
	"agri-report-workers/pkg/registry"
)

var backendRetry = &camunda.RetryConfig{
	MaxRetries: 15,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

// Runtime owns every long-lived client behind the report pipeline.
type Runtime struct {
	Config   *config.Config
	Registry *registry.TemplateRegistry
	Catalog  *catalog.Catalog
	Runner   *pipeline.Runner
	Fanout   *delivery.Fanout

	Postgres *database.PostgresClient
	Search   *database.ElasticsearchClient
	Redis    *database.RedisClient
	SNS      *aws.SNSClient
	SES      *aws.SESClient

	logger logger.Logger
}

// Open connects only the backends that enabled features need, then builds
// the provider set, the delivery fan-out, the runner and the catalog.
func Open(ctx context.Context, cfg *config.Config, obs *observability.Observability, log logger.Logger) (*Runtime, error) {
	rt := &Runtime{Config: cfg, logger: log}
	if err := rt.connect(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	reg, err := registry.LoadRegistry(cfg.Pipeline.RegistryPath)
	if err != nil {
		if cfg.Pipeline.ValidateReports {
			rt.Close()
			return nil, fmt.Errorf("load template registry: %w", err)
		}
		log.Warn("template registry unavailable", map[string]interface{}{
			"path":  cfg.Pipeline.RegistryPath,
			"error": err.Error(),
		})
	}
	rt.Registry = reg

	opts := []pipeline.Option{pipeline.WithObservability(obs)}
	if cfg.Pipeline.ValidateReports && reg != nil {
		v, err := validation.NewReportValidator(reg)
		if err != nil {
			rt.Close()
			return nil, err
		}
		opts = append(opts, pipeline.WithValidator(v))
	}

	backends := delivery.Backends{SNS: rt.SNS, SES: rt.SES}
	deps := providers.Deps{}
	if rt.Postgres != nil {
		backends.DB = rt.Postgres.GetDB()
		deps.DB = rt.Postgres.GetDB()
	}
	if rt.Search != nil {
		backends.Search = rt.Search
	}
	if rt.Redis != nil {
		deps.Redis = rt.Redis.GetClient()
	}

	rt.Fanout = delivery.FromConfig(cfg, backends, log)
	opts = append(opts, pipeline.WithDispatcher(rt.Fanout))

	rt.Runner = pipeline.NewRunner(log, opts...)
	deps.Clock = rt.Runner.Clock()
	set := providers.NewSet(cfg.Providers, deps, log)
	rt.Catalog = catalog.New(cfg, set, rt.Runner, log)
	return rt, nil
}

func (rt *Runtime) connect(ctx context.Context) error {
	cfg := rt.Config

	if cfg.Pipeline.ArchiveReports || cfg.Providers.ClaimSignals.UsePostgres {
		err := camunda.RetryWithBackoff(ctx, backendRetry, rt.logger, "postgres connection", func() error {
			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				pg.Close()
				return err
			}
			rt.Postgres = pg
			return nil
		})
		if err != nil {
			return errors.NewDatabaseConnectionFailedError(err)
		}
		rt.logger.Info("postgres connected", nil)
	}

	if cfg.Pipeline.IndexReports {
		err := camunda.RetryWithBackoff(ctx, backendRetry, rt.logger, "elasticsearch connection", func() error {
			es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.Info(ctx); err != nil {
				return err
			}
			rt.Search = es
			return nil
		})
		if err != nil {
			return errors.NewElasticsearchConnectionFailedError(err)
		}
		rt.logger.Info("elasticsearch connected", nil)
	}

	if cfg.Providers.Cache.Enabled {
		err := camunda.RetryWithBackoff(ctx, backendRetry, rt.logger, "redis connection", func() error {
			rc, err := database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			if err := rc.Ping(ctx); err != nil {
				rc.Close()
				return err
			}
			rt.Redis = rc
			return nil
		})
		if err != nil {
			return fmt.Errorf("redis connection: %w", err)
		}
		rt.logger.Info("redis connected", nil)
	}

	if cfg.Notifications.Enabled {
		var err error
		if cfg.Notifications.SNS.TopicARN != "" {
			if rt.SNS, err = aws.NewSNSClient(ctx, cfg.Notifications.Region); err != nil {
				return fmt.Errorf("sns client: %w", err)
			}
		}
		if cfg.Notifications.SES.FromEmail != "" {
			if rt.SES, err = aws.NewSESClient(ctx, cfg.Notifications.Region); err != nil {
				return fmt.Errorf("ses client: %w", err)
			}
		}
	}
	return nil
}

// Provisioner returns the provisioning plan for the connected backends.
func (rt *Runtime) Provisioner() *provision.Provisioner {
	return NewProvisioner(rt.Postgres, rt.Search, rt.Config.Database.Elasticsearch.ReportIndex, rt.logger)
}

// NewProvisioner keeps nil clients from reaching provision.New as typed nils.
func NewProvisioner(pg *database.PostgresClient, es *database.ElasticsearchClient, index string, log logger.Logger) *provision.Provisioner {
	var db *sql.DB
	if pg != nil {
		db = pg.GetDB()
	}
	var admin provision.IndexAdmin
	if es != nil {
		admin = es
	}
	if index == "" {
		index = delivery.DefaultReportIndex
	}
	return provision.New(db, admin, index, log)
}

// Ready pings every connected backend.
func (rt *Runtime) Ready(ctx context.Context) error {
	if rt.Postgres != nil {
		if err := rt.Postgres.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if rt.Redis != nil {
		if err := rt.Redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	if rt.Search != nil {
		if err := rt.Search.Info(ctx); err != nil {
			return fmt.Errorf("elasticsearch: %w", err)
		}
	}
	return nil
}

func (rt *Runtime) Close() {
	if rt.Fanout != nil {
		if err := rt.Fanout.Close(); err != nil {
			rt.logger.Warn("closing report sinks", map[string]interface{}{"error": err.Error()})
		}
	}
	if rt.Redis != nil {
		rt.Redis.Close()
	}
	if rt.Postgres != nil {
		rt.Postgres.Close()
	}
}
