package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const developmentEnv = "development"

// InitLogger replaces the global zerolog logger. An unknown or empty level
// falls back to info.
func InitLogger(serviceName, env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(parseLevel(level))

	ctx := zerolog.New(logOutput(env)).With().
		Timestamp().
		Str("service", serviceName).
		Str("env", env)
	if env != developmentEnv {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// logOutput is human readable in development and JSON everywhere else
func logOutput(env string) io.Writer {
	if env == developmentEnv {
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return os.Stdout
}

// LoggerFromContext returns the global logger bound to ctx. Lines written
// inside a span carry its trace and span ids.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		logger := log.Logger.With().Ctx(ctx).Logger()
		return &logger
	}

	logger := log.Logger.With().
		Ctx(ctx).
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()
	return &logger
}
