package scheduling

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestCreateSpansCarryRejection(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	e := newTestEngine(t, &memoryStore{}, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	in := CreateInput{Type: "hair", Date: "2024-06-03", Time: "10:00", UserID: 5}
	if _, err := e.Create(context.Background(), in); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := e.Create(context.Background(), in); err == nil {
		t.Fatalf("expected conflict on second booking")
	}

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}
	for _, s := range spans {
		if s.Name() != "scheduling.Create" {
			t.Fatalf("span name = %q", s.Name())
		}
	}
	if got := rejection(spans[0].Attributes()); got != "" {
		t.Fatalf("accepted booking tagged with rejection %q", got)
	}
	if got := rejection(spans[1].Attributes()); got != "conflict" {
		t.Fatalf("rejection = %q, want conflict", got)
	}
}

func rejection(attrs []attribute.KeyValue) string {
	for _, kv := range attrs {
		if kv.Key == "rejection" {
			return kv.Value.AsString()
		}
	}
	return ""
}
