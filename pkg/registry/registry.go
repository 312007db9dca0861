// Package registry reads and maintains the report template registry file.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

func LoadRegistry(path string) (*TemplateRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg TemplateRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry writes reg to path, stamping LastUpdated.
func SaveRegistry(reg *TemplateRegistry, path string) error {
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Find returns the template whose ID or task type equals id.
func (r *TemplateRegistry) Find(id string) (*TemplateDefinition, bool) {
	for i := range r.Templates {
		if r.Templates[i].ID == id || r.Templates[i].TaskType == id {
			return &r.Templates[i], true
		}
	}
	return nil, false
}

// Validate checks ids, task types and that every template documents exactly
// Arity arguments.
func (r *TemplateRegistry) Validate() error {
	if len(r.Templates) == 0 {
		return fmt.Errorf("registry contains no templates")
	}

	ids := make(map[string]bool)
	for _, tpl := range r.Templates {
		if tpl.ID == "" {
			return fmt.Errorf("template missing required field: id")
		}
		if ids[tpl.ID] {
			return fmt.Errorf("duplicate template ID: %s", tpl.ID)
		}
		ids[tpl.ID] = true

		if tpl.TaskType == "" {
			return fmt.Errorf("template %s missing required field: taskType", tpl.ID)
		}
		if tpl.Arity <= 0 {
			return fmt.Errorf("template %s has invalid arity %d", tpl.ID, tpl.Arity)
		}
		if len(tpl.Arguments) != tpl.Arity {
			return fmt.Errorf("template %s documents %d arguments, arity is %d", tpl.ID, len(tpl.Arguments), tpl.Arity)
		}
		if tpl.Timeout != "" {
			if _, err := time.ParseDuration(tpl.Timeout); err != nil {
				return fmt.Errorf("template %s has invalid timeout %q: %w", tpl.ID, tpl.Timeout, err)
			}
		}
	}
	return nil
}

// ArgumentNames returns the positional argument names in order.
func (d *TemplateDefinition) ArgumentNames() []string {
	names := make([]string, len(d.Arguments))
	for i, a := range d.Arguments {
		names[i] = a.Name
	}
	return names
}

// SetField updates one scalar field of the template identified by id.
func (r *TemplateRegistry) SetField(id, field, value string) error {
	def, ok := r.Find(id)
	if !ok {
		return fmt.Errorf("template with ID %s not found", id)
	}
	switch field {
	case "status":
		def.ImplementationStatus = value
	case "version":
		def.Version = value
	case "displayName":
		def.DisplayName = value
	case "description":
		def.Description = value
	case "category":
		def.Category = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		def.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		def.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

// CheckArity compares documented arities against the implemented ones. Every
// implemented template must be present with the same arity.
func (r *TemplateRegistry) CheckArity(implemented map[string]int) error {
	var problems []string
	for name, arity := range implemented {
		def, ok := r.Find(name)
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s is not in the registry", name))
		case def.Arity != arity:
			problems = append(problems, fmt.Sprintf("%s has arity %d in the registry, %d implemented", name, def.Arity, arity))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("registry out of date: %s", strings.Join(problems, "; "))
	}
	return nil
}
