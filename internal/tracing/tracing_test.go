package tracing

import (
	"context"
	"errors"
	"testing"

	"resume-screener/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := tp.Tracer("test").Start(context.Background(), "analyze")
	RecordErrorWithInfo(span, errors.New("analyzer down"), ErrorTypeAnalyzer, attribute.String("document.id", "doc-1"))
	RecordError(span, nil, ErrorTypeInternal)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	attrs := map[attribute.Key]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	assert.Equal(t, "analyzer", attrs["error.type"])
	assert.Equal(t, "doc-1", attrs["document.id"])
	require.Len(t, spans[0].Events(), 1)
}

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("a"))
	assert.Equal(t, "J*", MaskPII("Jo"))
	assert.Equal(t, "J**e", MaskPII("Jane"))
	assert.Equal(t, "ja************om", MaskPII("jane@example.com"))
}

func TestSafeAttributeValue(t *testing.T) {
	assert.Equal(t, "98******10", SafeAttributeValue("candidate.phone", "9876543210", 100))
	assert.Equal(t, "abc", SafeAttributeValue("document.path", "abc", 100))
	assert.Equal(t, "ab...yz", TruncateString("abcdefghijklmnopqrstuvwxyz", 7))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}

func TestInitTracerProvider_Disabled(t *testing.T) {
	shutdown, err := InitTracerProvider(context.Background(), config.TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
