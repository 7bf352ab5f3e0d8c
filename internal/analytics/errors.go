package analytics

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// Upstream provider names as they appear in error messages.
const (
	ProviderGSC = "GSC"
	ProviderGA4 = "GA4"
)

// UpstreamError is a failed Search Console or GA4 API call.
type UpstreamError struct {
	Provider string
	// Detail is the full text of the underlying error, including the
	// status and reason reported by the API.
	Detail string
	// StatusCode is the HTTP status reported by the API, or 0 when the call
	// failed before a response was received.
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Detail)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func newUpstreamError(provider string, err error) *UpstreamError {
	ue := &UpstreamError{Provider: provider, Detail: err.Error(), Err: err}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		ue.StatusCode = apiErr.Code
	}
	return ue
}

// InitializationError means the credential or the API clients could not be
// set up.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("Failed to initialize services: %v", e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// UnknownToolError is a tool call naming a tool that does not exist.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return "Unknown tool: " + e.Name
}

// UnknownResourceError is a well-formed dashboard URI with an unsupported
// period or path shape.
type UnknownResourceError struct {
	URI string
}

func (e *UnknownResourceError) Error() string {
	return "Unknown resource: " + e.URI
}

// MalformedResourceURIError is a URI that is not an analytics://dashboard URI.
type MalformedResourceURIError struct {
	URI    string
	Reason string
}

func (e *MalformedResourceURIError) Error() string {
	return fmt.Sprintf("malformed resource URI %q: %s", e.URI, e.Reason)
}

// InvalidArgumentError is a tool argument that failed validation.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field == "" {
		return "invalid arguments: " + e.Reason
	}
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}
