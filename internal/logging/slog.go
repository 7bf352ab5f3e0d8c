package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

// Common log attribute keys.
const (
	KeyOperation    = "operation"
	KeySite         = "site"
	KeyProvider     = "provider"
	KeyPrincipal    = "principal"
	KeyDuration     = "duration"
	KeyStatus       = "status"
	KeyError        = "error"
	KeyTool         = "tool"
	KeyResourceURI  = "resource_uri"
	KeyInvocationID = "invocation_id"
)

// Status values, matching instrumentation.StatusSuccess and StatusError.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(Operation(operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// WithSite returns a logger with the site attribute set.
func WithSite(logger *slog.Logger, site string) *slog.Logger {
	return logger.With(Site(site))
}

func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

func Site(site string) slog.Attr {
	return slog.String(KeySite, site)
}

// Provider is the upstream reporting API, "gsc" or "ga4".
func Provider(provider string) slog.Attr {
	return slog.String(KeyProvider, provider)
}

func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

func ResourceURI(uri string) slog.Attr {
	return slog.String(KeyResourceURI, uri)
}

func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail returns a stable hash of an email so log lines can be
// correlated without carrying the address.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(strings.ToLower(email)))
	return "principal:" + hex.EncodeToString(hash[:8])
}

// Principal returns the anonymized service account as a slog attribute.
func Principal(email string) slog.Attr {
	return slog.String(KeyPrincipal, AnonymizeEmail(email))
}

// SanitizeToken returns a length indicator without exposing token content.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// RedactURL strips the userinfo (password) from a connection URL such as
// redis://:secret@host:6379/0. Unparseable input is replaced entirely.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "<redacted>"
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}
