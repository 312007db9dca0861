// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input normalization
	ErrCodeInvalidNumericArgument ErrorCode = "INVALID_NUMERIC_ARGUMENT"
	ErrCodeArgumentCountMismatch  ErrorCode = "ARGUMENT_COUNT_MISMATCH"
	ErrCodeInvalidJobVariables    ErrorCode = "INVALID_JOB_VARIABLES"

	// Data providers
	ErrCodeProviderRequestFailed ErrorCode = "PROVIDER_REQUEST_FAILED"
	ErrCodeProviderTimeout       ErrorCode = "PROVIDER_TIMEOUT"

	// Report assembly
	ErrCodeReportValidationFailed ErrorCode = "REPORT_VALIDATION_FAILED"
	ErrCodeTemplateNotFound       ErrorCode = "TEMPLATE_NOT_FOUND"

	// Delivery sinks
	ErrCodeReportArchiveFailed    ErrorCode = "REPORT_ARCHIVE_FAILED"
	ErrCodeReportIndexFailed      ErrorCode = "REPORT_INDEX_FAILED"
	ErrCodeReportPublishFailed    ErrorCode = "REPORT_PUBLISH_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	// Infrastructure
	ErrCodeDatabaseConnectionFailed      ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeProvisioningFailed            ErrorCode = "PROVISIONING_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// AsStandardError unwraps err looking for a *StandardError.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err wraps a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidNumericArgumentError reports a positional argument that is not a number.
func NewInvalidNumericArgumentError(name, value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidNumericArgument,
		Message:   fmt.Sprintf("argument %s is not a valid number: %q", name, value),
		Details:   fmt.Sprintf("argument: %s", name),
		Retryable: false,
		Metadata:  map[string]interface{}{"argument": name, "value": value},
		Timestamp: time.Now().UTC(),
	}
}

// NewArgumentCountMismatchError reports too few positional arguments.
func NewArgumentCountMismatchError(expected, got int) *StandardError {
	return &StandardError{
		Code:      ErrCodeArgumentCountMismatch,
		Message:   fmt.Sprintf("expected %d arguments, got %d", expected, got),
		Retryable: false,
		Metadata:  map[string]interface{}{"expected": expected, "got": got},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidJobVariablesError reports job variables that could not be decoded.
func NewInvalidJobVariablesError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidJobVariables,
		Message:   "Job variables could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderRequestFailedError creates a provider failure. Reports do not retry it.
func NewProviderRequestFailedError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderRequestFailed,
		Message:   fmt.Sprintf("%s request failed: %s", provider, err.Error()),
		Details:   fmt.Sprintf("provider: %s", provider),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderTimeoutError creates a provider timeout error.
func NewProviderTimeoutError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderTimeout,
		Message:   fmt.Sprintf("%s request timed out", provider),
		Details:   fmt.Sprintf("provider: %s", provider),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportValidationFailedError creates a non-retryable schema validation error.
func NewReportValidationFailedError(template, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportValidationFailed,
		Message:   fmt.Sprintf("report for %s failed schema validation", template),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateNotFoundError creates a non-retryable template error.
func NewTemplateNotFoundError(templateID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   "Template not found in registry",
		Details:   fmt.Sprintf("templateId: %s", templateID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportArchiveFailedError creates a retryable archive insert error.
func NewReportArchiveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportArchiveFailed,
		Message:   "Report archive insert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportIndexFailedError creates a retryable search indexing error.
func NewReportIndexFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportIndexFailed,
		Message:   "Report indexing failed",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportPublishFailedError creates a retryable publication error.
func NewReportPublishFailedError(topic string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportPublishFailed,
		Message:   "Report publication failed",
		Details:   fmt.Sprintf("topic: %s, error: %s", topic, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProvisioningFailedError reports a provisioning step that could not be applied.
func NewProvisioningFailedError(step string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProvisioningFailed,
		Message:   fmt.Sprintf("provisioning step %s failed", step),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the BPMN error codes modelled in the processes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidNumericArgument:        "INVALID_NUMERIC_ARGUMENT",
	ErrCodeArgumentCountMismatch:         "ARGUMENT_COUNT_MISMATCH",
	ErrCodeInvalidJobVariables:           "INVALID_JOB_VARIABLES",
	ErrCodeProviderRequestFailed:         "PROVIDER_REQUEST_FAILED",
	ErrCodeProviderTimeout:               "PROVIDER_TIMEOUT",
	ErrCodeReportValidationFailed:        "REPORT_VALIDATION_FAILED",
	ErrCodeTemplateNotFound:              "TEMPLATE_NOT_FOUND",
	ErrCodeReportArchiveFailed:           "REPORT_ARCHIVE_FAILED",
	ErrCodeReportIndexFailed:             "REPORT_INDEX_FAILED",
	ErrCodeReportPublishFailed:           "REPORT_PUBLISH_FAILED",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeProvisioningFailed:            "PROVISIONING_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeReportArchiveFailed,
		ErrCodeReportIndexFailed,
		ErrCodeReportPublishFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeProvisioningFailed:
		return 3

	case "TIMEOUT_ERROR", "EXTERNAL_SERVICE_ERROR":
		return 2

	default:
		return 0 // pipeline and input errors are deterministic
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ARGUMENT") || strings.Contains(codeStr, "JOB_VARIABLES"):
		return "INPUT"
	case strings.Contains(codeStr, "PROVIDER"):
		return "PROVIDER"
	case strings.Contains(codeStr, "TEMPLATE") || strings.Contains(codeStr, "VALIDATION"):
		return "REPORT"
	case strings.Contains(codeStr, "ARCHIVE") || strings.Contains(codeStr, "INDEX") ||
		strings.Contains(codeStr, "PUBLISH") || strings.Contains(codeStr, "NOTIFICATION"):
		return "DELIVERY"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "ELASTICSEARCH") ||
		strings.Contains(codeStr, "PROVISIONING"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}
