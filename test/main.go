package test

import (
	"context"
	"os"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var recorder = tracetest.NewSpanRecorder()

// Main runs the tests with a recording trace provider installed, so that
// tests can inspect finished spans with [Spans].
//
//	func TestMain(m *testing.M) {
//		test.Main(m)
//	}
func Main(m *testing.M) {
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.AlwaysSample()),
		trace.WithSpanProcessor(recorder),
	)
	otel.SetTracerProvider(tp)
	code := m.Run()
	ctx, done := context.WithTimeout(context.Background(), 10*time.Second)
	if err := tp.Shutdown(ctx); err != nil && code == 0 {
		code = 1
	}
	done()
	os.Exit(code)
}

// Spans returns every span ended so far. It is only populated in packages
// using [Main].
func Spans() []trace.ReadOnlySpan {
	return recorder.Ended()
}
