package otel_test

import (
	"context"
	"errors"
	"testing"

	"innkeep/infras/otel"
	"innkeep/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otl := otel.NewWithProvider(trace.NewTracerProvider(trace.WithSpanProcessor(recorder)))

	_, scope := otl.NewScope(context.Background(), "service", "service.Cancel")
	scope.SetAttributes(map[string]any{
		"reservation.id":    "r-1",
		"reservation.rooms": 2,
		"refund.amount":     int64(750),
	})
	scope.TraceIfError(nil)
	scope.TraceError(failure.Wrap(failure.ErrInvalidStateTransition, "CANCELLED -> CANCELLED"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "service.Cancel", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Contains(t, span.Attributes(), attribute.Int64("refund.amount", 750))
	assert.Contains(t, span.Attributes(), attribute.Int("reservation.rooms", 2))
	assert.Contains(t, span.Attributes(), attribute.Int("error.code", 409))
}

func TestScope_PlainErrorHasNoCode(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otl := otel.NewWithProvider(trace.NewTracerProvider(trace.WithSpanProcessor(recorder)))

	_, scope := otl.NewScope(context.Background(), "repository", "repository.Insert")
	scope.TraceError(errors.New("connection reset"))
	scope.End()

	require.Len(t, recorder.Ended(), 1)

	for _, kv := range recorder.Ended()[0].Attributes() {
		assert.NotEqual(t, attribute.Key("error.code"), kv.Key)
	}
}
