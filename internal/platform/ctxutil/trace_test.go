package ctxutil

import (
	"context"
	"testing"
)

func TestTraceDataRoundTrip(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{
		TraceID:   "trace-1",
		RequestID: "req-1",
	})
	td := GetTraceData(ctx)
	if td == nil {
		t.Fatalf("trace data missing from context")
	}
	if td.TraceID != "trace-1" || td.RequestID != "req-1" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
}

func TestGetTraceDataAbsent(t *testing.T) {
	if td := GetTraceData(context.Background()); td != nil {
		t.Fatalf("want nil for bare context, got %+v", td)
	}
}
