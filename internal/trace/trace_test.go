package trace

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestStartSpan_Disabled(t *testing.T) {
	require.NoError(t, Init(false, "test", nil))
	assert.False(t, Enabled())

	ctx := context.Background()
	got, span := StartSpan(ctx, "noop")
	assert.Equal(t, ctx, got)
	assert.False(t, span.SpanContext().IsValid())
	EndSpan(span, errors.New("ignored"))
}

func TestStartSpan_Enabled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(true, "test", &buf))
	t.Cleanup(func() {
		enabled = false
		tracer = nil
		tracerProvider = nil
	})

	_, span := StartSpan(context.Background(), "postgres.query", attribute.String("db.operation", "accounts"))
	assert.True(t, span.SpanContext().IsValid())
	EndSpan(span, nil)

	require.NoError(t, Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "postgres.query")
}
