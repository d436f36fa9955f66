package tracing

import (
	"context"
	"testing"
)

func TestNormalizeJaegerCollector(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "jaeger", want: "http://jaeger:14268/api/traces"},
		{in: "jaeger:14268", want: "http://jaeger:14268/api/traces"},
		{in: "http://collector:4000/", want: "http://collector:4000/api/traces"},
		{in: "https://collector.example:443/api/traces", want: "https://collector.example:443/api/traces"},
	}

	for _, tt := range tests {
		if got := normalizeJaegerCollector(tt.in); got != tt.want {
			t.Fatalf("normalizeJaegerCollector(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInit_Disabled(t *testing.T) {
	for _, collector := range []string{"", "off", " NONE "} {
		shutdown, err := Init("fan-companion", "test", collector)
		if err != nil {
			t.Fatalf("Init(%q): %v", collector, err)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	}
}
