package communityalert

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/common/metrics"
	"agri-report-workers/internal/pipeline"
	"agri-report-workers/internal/providers"
)

const (
	TaskType = "community-alert"
)

type Handler struct {
	config       *Config
	template     *Template
	runner       *pipeline.Runner
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, set *providers.Set, runner *pipeline.Runner, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		template:     NewTemplate(config, set, log),
		runner:       runner,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

// Template exposes the report template for the API and CLI surfaces.
func (h *Handler) Template() *Template {
	return h.template
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.ErrCodeInvalidJobVariables)).Inc()
		h.errorHandler.HandleJobError(context.Background(), client, job, errors.NewInvalidJobVariablesError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output := h.execute(ctx, &input)
	h.completeJob(client, job, output)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	result := h.runner.Run(ctx, h.template, input.Args)
	return &Output{
		Report:   result.Encoded,
		ReportID: result.ReportID,
		Error:    result.Failed,
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":   job.Key,
		"reportId": output.ReportID,
		"error":    output.Error,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	return h.execute(ctx, input)
}
