package wise

import (
	"encoding/json"
	"fmt"
)

// ErrorType classifies every failure the client can surface.
type ErrorType string

const (
	// ErrorTypeValidation means a precondition on caller-supplied input
	// failed. No remote call was issued; the caller can correct the input
	// and retry.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeRemoteCall means the Wise API returned an error status or
	// the request never completed at the transport level.
	ErrorTypeRemoteCall ErrorType = "remote_call_failed"
	// ErrorTypeMalformedResponse means the API answered 2xx but the body
	// was missing a field the contract treats as mandatory.
	ErrorTypeMalformedResponse ErrorType = "malformed_response"
	// ErrorTypeStepFailed wraps a failure of one step of the invoice
	// lifecycle, identifying which step did not complete.
	ErrorTypeStepFailed ErrorType = "step_failed"
)

// Step names the three calls of the invoice lifecycle.
type Step string

const (
	StepAllocate Step = "ALLOCATE"
	StepPopulate Step = "POPULATE"
	StepPublish  Step = "PUBLISH"
)

// Error is the structured error returned by all client operations.
type Error struct {
	Type    ErrorType
	Message string
	// Step is set when Type is ErrorTypeStepFailed.
	Step Step
	// Status carries the HTTP status for remote failures, 0 otherwise.
	Status int
	// PaymentRequestID identifies the draft left behind on the remote
	// system when a POPULATE or PUBLISH step fails. Drafts are never
	// rolled back; cleanup or retry is the caller's decision.
	PaymentRequestID string

	cause error
}

// Error satisfies the stdlib error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Type == ErrorTypeStepFailed {
		if e.PaymentRequestID != "" {
			return fmt.Sprintf("invoice step %s failed (payment request %s): %s", e.Step, e.PaymentRequestID, e.Message)
		}
		return fmt.Sprintf("invoice step %s failed: %s", e.Step, e.Message)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewValidationError reports a failed input precondition.
func NewValidationError(format string, args ...any) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// newRemoteError maps a non-2xx API response to an error, extracting the
// provider's message when the body is parseable.
func newRemoteError(status int, body []byte) *Error {
	return &Error{
		Type:    ErrorTypeRemoteCall,
		Status:  status,
		Message: remoteErrorMessage(status, body),
	}
}

func newTransportError(err error) *Error {
	return &Error{
		Type:    ErrorTypeRemoteCall,
		Message: err.Error(),
		cause:   err,
	}
}

func newMalformedResponseError(field string) *Error {
	return &Error{
		Type:    ErrorTypeMalformedResponse,
		Message: fmt.Sprintf("response is missing mandatory field %q", field),
	}
}

func stepFailed(step Step, paymentRequestID string, cause error) *Error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Type:             ErrorTypeStepFailed,
		Step:             step,
		Message:          msg,
		PaymentRequestID: paymentRequestID,
		cause:            cause,
	}
}

// remoteErrorMessage pulls errors[0].message out of the Wise error envelope,
// falling back to a generic HTTP status message.
func remoteErrorMessage(status int, body []byte) string {
	var envelope struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 && envelope.Errors[0].Message != "" {
		return envelope.Errors[0].Message
	}
	return fmt.Sprintf("HTTP %d", status)
}
