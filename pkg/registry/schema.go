package registry

// TemplateRegistry is the on-disk catalogue of report templates.
type TemplateRegistry struct {
	Version     string               `json:"version"`
	LastUpdated string               `json:"lastUpdated"`
	Templates   []TemplateDefinition `json:"templates"`
}

type TemplateDefinition struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	Arity                int                    `json:"arity"`
	Arguments            []ArgumentDefinition   `json:"arguments"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Tags                 []string               `json:"tags"`
}

// ArgumentDefinition documents one positional argument.
type ArgumentDefinition struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // string | number | integer | json
	Description string `json:"description,omitempty"`
}
