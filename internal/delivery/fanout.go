package delivery

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"time"

	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/common/metrics"
	"agri-report-workers/internal/pipeline"

	"golang.org/x/sync/errgroup"
)

// Sink receives every successfully built report.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, result *pipeline.Result) error
}

// Fanout delivers a result to all sinks concurrently. One sink failing does not
// stop the others.
type Fanout struct {
	sinks   []Sink
	timeout time.Duration
	logger  logger.Logger
}

const defaultDeliveryTimeout = 15 * time.Second

func NewFanout(log logger.Logger, sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks, timeout: defaultDeliveryTimeout, logger: log}
}

// Sinks returns the configured sink names in order.
func (f *Fanout) Sinks() []string {
	names := make([]string, 0, len(f.sinks))
	for _, s := range f.sinks {
		names = append(names, s.Name())
	}
	return names
}

func (f *Fanout) Dispatch(ctx context.Context, result *pipeline.Result) error {
	if len(f.sinks) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, sink := range f.sinks {
		sink := sink
		g.Go(func() error {
			err := sink.Deliver(ctx, result)
			if err != nil {
				metrics.SinkDeliveries.WithLabelValues(sink.Name(), "error").Inc()
				f.logger.Error("report delivery failed", map[string]interface{}{
					"sink":     sink.Name(),
					"reportId": result.ReportID,
					"template": result.Template,
					"error":    err.Error(),
				})
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			metrics.SinkDeliveries.WithLabelValues(sink.Name(), "ok").Inc()
			return nil
		})
	}
	_ = g.Wait()
	return stderrors.Join(errs...)
}

// Close closes every sink that holds a connection.
func (f *Fanout) Close() error {
	var errs []error
	for _, s := range f.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return stderrors.Join(errs...)
}
