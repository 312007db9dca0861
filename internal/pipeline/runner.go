package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/common/metrics"
	"agri-report-workers/internal/common/observability"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Result is the outcome of one pipeline run. Encoded is always a complete
// Report or ErrorReport document.
type Result struct {
	ReportID    string                 `json:"reportId"`
	Template    string                 `json:"template"`
	Encoded     string                 `json:"report"`
	Failed      bool                   `json:"error"`
	Message     string                 `json:"message,omitempty"`
	Identifiers map[string]interface{} `json:"identifiers,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Duration    time.Duration          `json:"duration"`
	Report      interface{}            `json:"-"`
}

// Runner is the report assembler and its fault boundary.
type Runner struct {
	clock      clockwork.Clock
	validator  Validator
	dispatcher Dispatcher
	obs        *observability.Observability
	newID      func() string
	logger     logger.Logger
}

type Option func(*Runner)

func WithClock(c clockwork.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

func WithValidator(v Validator) Option {
	return func(r *Runner) { r.validator = v }
}

func WithDispatcher(d Dispatcher) Option {
	return func(r *Runner) { r.dispatcher = d }
}

func WithObservability(o *observability.Observability) Option {
	return func(r *Runner) { r.obs = o }
}

func WithIDGenerator(fn func() string) Option {
	return func(r *Runner) { r.newID = fn }
}

func NewRunner(log logger.Logger, opts ...Option) *Runner {
	r := &Runner{
		clock:  clockwork.NewRealClock(),
		newID:  uuid.NewString,
		logger: log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Clock returns the clock used to stamp reports.
func (r *Runner) Clock() clockwork.Clock {
	return r.clock
}

// Run builds one report. It never returns a partially built report: any error or
// panic while building, encoding or validating yields an ErrorReport.
func (r *Runner) Run(ctx context.Context, tpl Template, args []string) *Result {
	now := r.clock.Now()
	a := Args(args)
	result := &Result{
		ReportID:    r.newID(),
		Template:    tpl.Name(),
		Identifiers: tpl.Identifiers(a),
		Timestamp:   now,
	}

	ctx, span := r.obs.StartSpan(ctx, "report.build",
		attribute.String("template", tpl.Name()),
		attribute.String("reportId", result.ReportID),
	)
	defer span.End()

	report, encoded, err := r.build(ctx, tpl, &Invocation{Args: a, Now: now, ReportID: result.ReportID})
	if err != nil {
		result.Failed = true
		result.Message = errorMessage(err)
		result.Encoded = r.encodeError(result, now)
		span.SetStatus(codes.Error, result.Message)
		r.logger.Warn("report failed", map[string]interface{}{
			"template": tpl.Name(),
			"reportId": result.ReportID,
			"error":    result.Message,
		})
	} else {
		result.Report = report
		result.Encoded = string(encoded)
		if agg, ok := report.(Aggregated); ok {
			metrics.AggregateScore.WithLabelValues(tpl.Name()).Observe(agg.AggregateScore().Raw)
		}
	}

	result.Duration = r.clock.Since(now)
	r.record(ctx, result)

	if r.dispatcher != nil && !result.Failed {
		if derr := r.dispatcher.Dispatch(ctx, result); derr != nil {
			r.logger.Warn("report delivery incomplete", map[string]interface{}{
				"template": tpl.Name(),
				"reportId": result.ReportID,
				"error":    derr.Error(),
			})
		}
	}
	return result
}

func (r *Runner) build(ctx context.Context, tpl Template, inv *Invocation) (report interface{}, encoded []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			report, encoded = nil, nil
			err = fmt.Errorf("report build panicked: %v", p)
		}
	}()

	report, err = tpl.Build(ctx, inv)
	if err != nil {
		return nil, nil, err
	}
	encoded, err = json.Marshal(report)
	if err != nil {
		return nil, nil, fmt.Errorf("encode report: %w", err)
	}
	if r.validator != nil {
		if err := r.validator.Validate(tpl.Name(), encoded); err != nil {
			return nil, nil, err
		}
	}
	return report, encoded, nil
}

func (r *Runner) encodeError(result *Result, now time.Time) string {
	doc := make(map[string]interface{}, len(result.Identifiers)+3)
	for k, v := range result.Identifiers {
		doc[k] = v
	}
	doc["error"] = true
	doc["message"] = result.Message
	doc["timestamp"] = now.UnixMilli()

	b, err := json.Marshal(doc)
	if err != nil {
		b, _ = json.Marshal(map[string]interface{}{
			"error":     true,
			"message":   result.Message,
			"timestamp": now.UnixMilli(),
		})
	}
	return string(b)
}

func (r *Runner) record(ctx context.Context, result *Result) {
	status := "ok"
	if result.Failed {
		status = "error"
	}
	metrics.ReportsGenerated.WithLabelValues(result.Template, status).Inc()
	metrics.ReportBuildDuration.WithLabelValues(result.Template).Observe(result.Duration.Seconds())
	r.obs.RecordReport(ctx, result.Template, result.Failed)
}

func errorMessage(err error) string {
	if stdErr, ok := errors.AsStandardError(err); ok {
		if stdErr.Code == errors.ErrCodeReportValidationFailed && stdErr.Details != "" {
			return stdErr.Message + ": " + stdErr.Details
		}
		return stdErr.Message
	}
	return err.Error()
}
