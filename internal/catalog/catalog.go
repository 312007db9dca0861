// Package catalog wires the five report workers against one provider set and
// runner so the worker manager, the HTTP API and the CLI share a single table.
package catalog

import (
	"agri-report-workers/internal/common/camunda"
	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/pipeline"
	"agri-report-workers/internal/providers"

	communityalert "agri-report-workers/internal/workers/alerts/community-alert"
	insuranceverification "agri-report-workers/internal/workers/insurance/insurance-verification"
	marketintelligence "agri-report-workers/internal/workers/market/market-intelligence"
	treatmenttracking "agri-report-workers/internal/workers/treatment/treatment-tracking"
	photoverification "agri-report-workers/internal/workers/verification/photo-verification"
)

// Entry is one registered report template and the job handler serving it.
type Entry struct {
	Name     string
	Template pipeline.Template
	Handler  camunda.JobHandler
	Worker   config.WorkerConfig
}

type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// New builds every worker from its section of cfg.Workers. A nil cfg uses
// the worker defaults.
func New(cfg *config.Config, set *providers.Set, runner *pipeline.Runner, log logger.Logger) *Catalog {
	if cfg == nil {
		cfg = &config.Config{}
	}
	c := &Catalog{byName: make(map[string]int)}

	wc := config.GetWorkerConfig(cfg, communityalert.TaskType)
	community := communityalert.NewHandler(communityalert.LoadConfig(wc), set, runner, log)
	c.add(Entry{Name: communityalert.TaskType, Template: community.Template(), Handler: community, Worker: wc})

	wc = config.GetWorkerConfig(cfg, insuranceverification.TaskType)
	insurance := insuranceverification.NewHandler(insuranceverification.LoadConfig(wc), set, runner, log)
	c.add(Entry{Name: insuranceverification.TaskType, Template: insurance.Template(), Handler: insurance, Worker: wc})

	wc = config.GetWorkerConfig(cfg, marketintelligence.TaskType)
	market := marketintelligence.NewHandler(marketintelligence.LoadConfig(wc), set, runner, log)
	c.add(Entry{Name: marketintelligence.TaskType, Template: market.Template(), Handler: market, Worker: wc})

	wc = config.GetWorkerConfig(cfg, photoverification.TaskType)
	photo := photoverification.NewHandler(photoverification.LoadConfig(wc), set, runner, log)
	c.add(Entry{Name: photoverification.TaskType, Template: photo.Template(), Handler: photo, Worker: wc})

	wc = config.GetWorkerConfig(cfg, treatmenttracking.TaskType)
	treatment := treatmenttracking.NewHandler(treatmenttracking.LoadConfig(wc), set, runner, log)
	c.add(Entry{Name: treatmenttracking.TaskType, Template: treatment.Template(), Handler: treatment, Worker: wc})

	return c
}

func (c *Catalog) add(e Entry) {
	c.byName[e.Name] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Get returns the template registered under name, or TEMPLATE_NOT_FOUND.
func (c *Catalog) Get(name string) (pipeline.Template, error) {
	i, ok := c.byName[name]
	if !ok {
		return nil, errors.NewTemplateNotFoundError(name)
	}
	return c.entries[i].Template, nil
}

// Names lists template names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// Entries returns a copy of the registered entries.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
