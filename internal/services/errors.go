package services

import (
	"errors"
	"fmt"
)

// ErrNoEligibleApplicants is the one failure that surfaces synchronously to
// the caller of Dispatcher.Submit. Everything else is persisted as an
// error state on the affected applicant instead of propagating.
var ErrNoEligibleApplicants = errors.New("there are no applicants here that are ready for extraction")

// ConfigurationError covers missing credentials, a missing model name, a
// missing attachment or an empty document. It fails the core step before
// any provider call is attempted.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// ProviderError wraps a network or provider-side failure from the
// extraction provider. The provider's message is kept verbatim.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("extraction provider request failed: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ParseError means the provider's output could not be decoded into the
// expected payload. Raw carries the full offending text so an operator can
// see exactly what the model returned.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	if e.Raw == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s. Raw text: %s", e.Reason, e.Raw)
}

// ReconciliationError fails the skills step only; core-step data written
// before it is kept.
type ReconciliationError struct {
	Err error
}

func (e *ReconciliationError) Error() string {
	return e.Err.Error()
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// DispatchError marks records whose batch worker crashed before (or while)
// processing them.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("extraction worker failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
