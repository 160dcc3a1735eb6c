package observability

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	otellog "go.opentelemetry.io/otel/log"
)

// LogBridgeHook re-emits zerolog events as OpenTelemetry log records. Only the
// level and message travel; structured fields stay in the local output.
type LogBridgeHook struct {
	logger otellog.Logger
}

// NewLogBridgeHook creates a hook writing to logger
func NewLogBridgeHook(logger otellog.Logger) *LogBridgeHook {
	return &LogBridgeHook{logger: logger}
}

// Run implements zerolog.Hook
func (h *LogBridgeHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level == zerolog.NoLevel || level == zerolog.Disabled {
		return
	}

	ctx := e.GetCtx()
	if ctx == nil {
		ctx = context.Background()
	}

	var record otellog.Record
	record.SetTimestamp(time.Now())
	record.SetSeverity(severityFor(level))
	record.SetSeverityText(level.String())
	record.SetBody(otellog.StringValue(msg))

	h.logger.Emit(ctx, record)
}

func severityFor(level zerolog.Level) otellog.Severity {
	switch level {
	case zerolog.TraceLevel:
		return otellog.SeverityTrace
	case zerolog.DebugLevel:
		return otellog.SeverityDebug
	case zerolog.InfoLevel:
		return otellog.SeverityInfo
	case zerolog.WarnLevel:
		return otellog.SeverityWarn
	case zerolog.ErrorLevel:
		return otellog.SeverityError
	case zerolog.FatalLevel:
		return otellog.SeverityFatal
	case zerolog.PanicLevel:
		return otellog.SeverityFatal4
	}
	return otellog.SeverityUndefined
}
