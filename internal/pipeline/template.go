package pipeline

import (
	"context"
	"time"

	"agri-report-workers/internal/models"
)

// Invocation carries everything a template needs for one build.
type Invocation struct {
	Args     Args
	Now      time.Time
	ReportID string
}

// NowMillis is the invocation timestamp in Unix milliseconds.
func (inv *Invocation) NowMillis() int64 {
	return inv.Now.UnixMilli()
}

// Template is one report kind. Build must not retain args after returning.
type Template interface {
	Name() string
	Arity() int
	// Identifiers are echoed into an ErrorReport. They read raw positional
	// strings so they never fail.
	Identifiers(args Args) map[string]interface{}
	Build(ctx context.Context, inv *Invocation) (interface{}, error)
}

// Aggregated is implemented by reports that carry a weighted aggregate.
type Aggregated interface {
	AggregateScore() models.AggregateScore
}

// Validator checks an encoded report against its template's output schema.
type Validator interface {
	Validate(template string, document []byte) error
}

// Dispatcher hands a finished Result to the delivery sinks.
type Dispatcher interface {
	Dispatch(ctx context.Context, result *Result) error
}
