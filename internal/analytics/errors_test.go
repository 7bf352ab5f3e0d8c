package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("no such file")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"init", &InitializationError{Err: cause}, "Failed to initialize services: no such file"},
		{"unknown tool", &UnknownToolError{Name: "delete_everything"}, "Unknown tool: delete_everything"},
		{"unknown resource", &UnknownResourceError{URI: "analytics://dashboard/decade"}, "Unknown resource: analytics://dashboard/decade"},
		{"malformed", &MalformedResourceURIError{URI: "http://x", Reason: "scheme must be analytics"}, `malformed resource URI "http://x": scheme must be analytics`},
		{"invalid field", &InvalidArgumentError{Field: "limit", Reason: "must be positive"}, "invalid argument limit: must be positive"},
		{"invalid body", &InvalidArgumentError{Reason: "unexpected EOF"}, "invalid arguments: unexpected EOF"},
		{"upstream", &UpstreamError{Provider: ProviderGSC, Detail: "boom"}, "GSC API error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestInitializationError_Unwrap(t *testing.T) {
	cause := errors.New("bad key")
	err := error(&InitializationError{Err: cause})
	assert.True(t, errors.Is(err, cause))
}
