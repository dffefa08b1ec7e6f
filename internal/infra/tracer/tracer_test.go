package tracer

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"genechat/internal/infra/config"
)

func TestSetupNoopWhenDisabled(t *testing.T) {
	for _, cfg := range []config.TracerConfig{
		{Enabled: false},
		{Enabled: true, Exporter: "noop"},
		{Enabled: true, Exporter: ""},
	} {
		shutdown, err := Setup(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Setup(%+v): %v", cfg, err)
		}
		defer shutdown(context.Background())

		tp := otel.GetTracerProvider()
		if _, ok := tp.(noop.TracerProvider); !ok {
			t.Errorf("Setup(%+v): expected noop provider, got %T", cfg, tp)
		}
	}
}

func TestSetupStdoutExporter(t *testing.T) {
	cfg := config.TracerConfig{Enabled: true, Exporter: "stdout"}
	shutdown, err := Setup(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer shutdown(context.Background())
}

func TestSetupUnsupportedExporter(t *testing.T) {
	cfg := config.TracerConfig{Enabled: true, Exporter: "jaeger"}
	if _, err := Setup(context.Background(), cfg); err == nil {
		t.Error("expected error for unsupported exporter")
	}
}

func TestSubmitSpanHelpers(t *testing.T) {
	otel.SetTracerProvider(noop.NewTracerProvider())

	ctx, span := StartSpan(context.Background(), "session.submit",
		trace.WithAttributes(StringAttr("backend", "localhost:3000"), IntAttr("entries", 3)))
	if ctx == nil {
		t.Error("context should not be nil")
	}

	RecordError(span, errors.New("backend unreachable"))
	SetOK(span)
	span.End()
}

func TestAttrHelpers(t *testing.T) {
	s := StringAttr("tool", "clinvar_lookup")
	if string(s.Key) != "tool" || s.Value.AsString() != "clinvar_lookup" {
		t.Errorf("StringAttr = %v", s)
	}

	i := IntAttr("studies", 7)
	if string(i.Key) != "studies" || i.Value.AsInt64() != 7 {
		t.Errorf("IntAttr = %v", i)
	}
}
