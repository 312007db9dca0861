package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{"numeric", NewInvalidNumericArgumentError("severity", "high"), ErrCodeInvalidNumericArgument, false},
		{"arity", NewArgumentCountMismatchError(8, 3), ErrCodeArgumentCountMismatch, false},
		{"job variables", NewInvalidJobVariablesError(fmt.Errorf("bad json")), ErrCodeInvalidJobVariables, false},
		{"provider", NewProviderRequestFailedError("openweathermap", fmt.Errorf("503")), ErrCodeProviderRequestFailed, false},
		{"provider timeout", NewProviderTimeoutError("coingecko"), ErrCodeProviderTimeout, false},
		{"validation", NewReportValidationFailedError("community-alert", "missing metadata"), ErrCodeReportValidationFailed, false},
		{"archive", NewReportArchiveFailedError(fmt.Errorf("conn reset")), ErrCodeReportArchiveFailed, true},
		{"index", NewReportIndexFailedError("agri-reports", fmt.Errorf("429")), ErrCodeReportIndexFailed, true},
		{"publish", NewReportPublishFailedError("agri.reports", fmt.Errorf("leader not available")), ErrCodeReportPublishFailed, true},
		{"notify", NewNotificationSendFailedError("sms", fmt.Errorf("throttled")), ErrCodeNotificationSendFailed, true},
		{"provision", NewProvisioningFailedError("reports-table", fmt.Errorf("permission denied")), ErrCodeProvisioningFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.False(t, tt.err.Timestamp.IsZero())
			assert.Contains(t, tt.err.Error(), string(tt.code))
		})
	}
}

func TestArgumentMessages(t *testing.T) {
	assert.Equal(t, `argument severity is not a valid number: "high"`, NewInvalidNumericArgumentError("severity", "high").Message)
	assert.Equal(t, "expected 8 arguments, got 3", NewArgumentCountMismatchError(8, 3).Message)
}

func TestAsStandardError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("normalize: %w", NewArgumentCountMismatchError(4, 2))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeArgumentCountMismatch, stdErr.Code)
	assert.True(t, HasCode(wrapped, ErrCodeArgumentCountMismatch))
	assert.False(t, HasCode(wrapped, ErrCodeProviderTimeout))

	_, ok = AsStandardError(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable keeps retry count", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewReportArchiveFailedError(fmt.Errorf("down")))
		assert.Equal(t, "REPORT_ARCHIVE_FAILED", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
		assert.True(t, bpmn.Retryable)

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "REPORT_ARCHIVE_FAILED", vars["errorCode"])
		assert.Equal(t, "REPORT_ARCHIVE_FAILED", vars["originalErrorCode"])
		assert.NotEmpty(t, vars["timestamp"])
	})

	t.Run("non retryable has zero retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewInvalidJobVariablesError(fmt.Errorf("eof")))
		assert.Equal(t, 0, bpmn.Retries)
		assert.False(t, bpmn.Retryable)
	})

	t.Run("unmapped code falls back to itself", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewBusinessRuleError("rule", "details"))
		assert.Equal(t, "BUSINESS_RULE_VIOLATION", bpmn.Code)
	})
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeInvalidNumericArgument, "INPUT"},
		{ErrCodeInvalidJobVariables, "INPUT"},
		{ErrCodeProviderTimeout, "PROVIDER"},
		{ErrCodeReportValidationFailed, "REPORT"},
		{ErrCodeTemplateNotFound, "REPORT"},
		{ErrCodeReportPublishFailed, "DELIVERY"},
		{ErrCodeNotificationSendFailed, "DELIVERY"},
		{ErrCodeProvisioningFailed, "INFRASTRUCTURE"},
		{"SOMETHING_ELSE", "OTHER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.code))
		})
	}

	assert.True(t, IsRetryableErrorCode(ErrCodeReportIndexFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeArgumentCountMismatch))
}
