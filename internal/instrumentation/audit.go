package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation captures one tool call or resource read for audit logging.
type ToolInvocation struct {
	// ID uniquely identifies the invocation across log lines.
	ID string

	Tool string
	Site string

	// Arguments holds the decoded request as JSON. Only logged when
	// AuditLoggingConfig.IncludeArguments is set.
	Arguments string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	CacheHit  bool
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation creates a ToolInvocation with timing started.
// Call Complete when the tool finishes.
func NewToolInvocation(tool, id string) *ToolInvocation {
	return &ToolInvocation{
		ID:        id,
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithSite sets the site key.
func (ti *ToolInvocation) WithSite(site string) *ToolInvocation {
	ti.Site = site
	return ti
}

// WithArguments sets the JSON-encoded arguments.
func (ti *ToolInvocation) WithArguments(args string) *ToolInvocation {
	ti.Arguments = args
	return ti
}

// WithSpanContext copies trace and span IDs from the span in ctx.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		ti.TraceID = sc.TraceID().String()
		ti.SpanID = sc.SpanID().String()
	}
	return ti
}

// MarkCacheHit flags the invocation as served from the report cache.
func (ti *ToolInvocation) MarkCacheHit() *ToolInvocation {
	ti.CacheHit = true
	return ti
}

// Complete marks the invocation as finished and computes its duration.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// Status returns StatusSuccess or StatusError.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns the slog attributes for the invocation. Arguments are
// included only when includeArgs is true.
func (ti *ToolInvocation) LogAttrs(includeArgs bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.ID),
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.Site != "" {
		attrs = append(attrs, slog.String("site", ti.Site))
	}
	if ti.CacheHit {
		attrs = append(attrs, slog.Bool("cache_hit", true))
	}
	if includeArgs && ti.Arguments != "" {
		attrs = append(attrs, slog.String("arguments", ti.Arguments))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID), slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// AuditLogger writes structured audit records for tool invocations.
type AuditLogger struct {
	logger      *slog.Logger
	level       slog.Level
	includeArgs bool
	enabled     bool
}

// NewAuditLogger creates an enabled AuditLogger that omits arguments.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates an AuditLogger from config.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:      logger.With(slog.String("component", "audit")),
		level:       parseLevel(config.LogLevel),
		includeArgs: config.IncludeArguments,
		enabled:     config.Enabled,
	}
}

// SetEnabled toggles audit logging.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogToolInvocation writes one record for ti. Successful invocations are
// logged at the configured level, failures at WARN or above.
func (al *AuditLogger) LogToolInvocation(ctx context.Context, ti *ToolInvocation) {
	if al == nil || !al.enabled {
		return
	}

	if ti.Success {
		al.logger.LogAttrs(ctx, al.level, "tool_executed", ti.LogAttrs(al.includeArgs)...)
		return
	}

	level := slog.LevelWarn
	if al.level > level {
		level = al.level
	}
	al.logger.LogAttrs(ctx, level, "tool_failed", ti.LogAttrs(al.includeArgs)...)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
