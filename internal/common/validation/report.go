// Package validation checks encoded reports against the registry output schemas.
package validation

import (
	"fmt"
	"strings"
	"sync"

	"agri-report-workers/internal/common/errors"
	"agri-report-workers/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

// ReportValidator holds one compiled schema per template id.
type ReportValidator struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
}

// NewReportValidator compiles the output schema of every registry template.
// Templates without a schema are not validated.
func NewReportValidator(reg *registry.TemplateRegistry) (*ReportValidator, error) {
	v := &ReportValidator{schemas: make(map[string]*gojsonschema.Schema)}
	for _, def := range reg.Templates {
		if len(def.OutputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.OutputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", def.ID, err)
		}
		v.schemas[def.ID] = schema
	}
	return v, nil
}

// Validate checks document against the schema registered for template.
func (v *ReportValidator) Validate(template string, document []byte) error {
	v.mu.RLock()
	schema, ok := v.schemas[template]
	v.mu.RUnlock()
	if !ok {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return errors.NewReportValidationFailedError(template, err.Error())
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.NewReportValidationFailedError(template, strings.Join(errs, "; "))
	}
	return nil
}

// Templates lists the template ids that have a compiled schema.
func (v *ReportValidator) Templates() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]string, 0, len(v.schemas))
	for id := range v.schemas {
		out = append(out, id)
	}
	return out
}
