// internal/common/camunda/worker.go
package camunda

import (
	"sync"
	"time"

	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every report worker.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// WorkerSet tracks opened job workers so they can be closed together.
type WorkerSet struct {
	mu      sync.Mutex
	workers map[string]worker.JobWorker
	logger  logger.Logger
}

func NewWorkerSet(log logger.Logger) *WorkerSet {
	return &WorkerSet{workers: make(map[string]worker.JobWorker), logger: log}
}

// Start opens a job worker for taskType unless the worker is disabled.
func (s *WorkerSet) Start(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler) {
	if !wcfg.Enabled {
		s.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	s.mu.Lock()
	s.workers[taskType] = jobWorker
	s.mu.Unlock()

	s.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
}

// TaskTypes lists the task types with an open worker.
func (s *WorkerSet) TaskTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.workers))
	for t := range s.workers {
		out = append(out, t)
	}
	return out
}

// Close stops every worker and waits for in-flight jobs.
func (s *WorkerSet) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for taskType, w := range s.workers {
		s.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		w.Close()
		w.AwaitClose()
	}
	s.workers = make(map[string]worker.JobWorker)
}
