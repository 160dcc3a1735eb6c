package observability

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/trace"
)

func TestInitLogger_Level(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	InitLogger("cheff-guio-test", "production", "warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	InitLogger("cheff-guio-test", "development", "not-a-level")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestLoggerFromContext_WithoutSpan(t *testing.T) {
	assert.NotNil(t, LoggerFromContext(context.Background()))
}

func TestLoggerFromContext_TagsSpan(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02},
		SpanID:     trace.SpanID{0x03},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	LoggerFromContext(ctx).Info().Msg("seated")

	assert.Contains(t, buf.String(), `"trace_id":"`+sc.TraceID().String()+`"`)
	assert.Contains(t, buf.String(), `"span_id":"`+sc.SpanID().String()+`"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
}

func TestRecorders_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, nil, "GET", "/health", 200, time.Millisecond)
		RecordWaitingListOperation(ctx, nil, "add", "ok")
		RecordTableMove(ctx, nil, true)
		RecordCanvasSessions(ctx, nil, 1)
	})
}

func TestInitMetrics_NoopProvider(t *testing.T) {
	metrics, err := InitMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, metrics, "POST", "POST /api/restaurants/{restaurantId}/waiting-list", 201, 3*time.Millisecond)
		RecordWaitingListOperation(ctx, metrics, "seat", "PARTIAL_FAILURE")
	})
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		level    zerolog.Level
		expected otellog.Severity
	}{
		{zerolog.TraceLevel, otellog.SeverityTrace},
		{zerolog.DebugLevel, otellog.SeverityDebug},
		{zerolog.InfoLevel, otellog.SeverityInfo},
		{zerolog.WarnLevel, otellog.SeverityWarn},
		{zerolog.ErrorLevel, otellog.SeverityError},
		{zerolog.FatalLevel, otellog.SeverityFatal},
		{zerolog.PanicLevel, otellog.SeverityFatal4},
		{zerolog.NoLevel, otellog.SeverityUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, severityFor(tt.level))
		})
	}
}

type recordingExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *recordingExporter) Export(ctx context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *recordingExporter) Shutdown(ctx context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(ctx context.Context) error { return nil }

func TestLogBridgeHook_ForwardsLevelAndMessage(t *testing.T) {
	exporter := &recordingExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))
	defer provider.Shutdown(context.Background())

	var out bytes.Buffer
	logger := zerolog.New(&out).Hook(NewLogBridgeHook(provider.Logger("test")))

	logger.Warn().Str("entry_id", "e-1").Msg("Queue confirmation not delivered")
	logger.Log().Msg("no level")

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	require.Len(t, exporter.records, 1)
	assert.Equal(t, otellog.SeverityWarn, exporter.records[0].Severity())
	assert.Equal(t, "warn", exporter.records[0].SeverityText())
	assert.Equal(t, "Queue confirmation not delivered", exporter.records[0].Body().AsString())
	assert.Contains(t, out.String(), "entry_id")
}
