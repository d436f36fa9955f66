package main

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}

	for input, want := range tests {
		if got := parseLogLevel(input); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestDisplayLocation(t *testing.T) {
	loc := displayLocation(zap.NewNop(), "America/Mexico_City")
	if loc.String() != "America/Mexico_City" {
		t.Fatalf("unexpected location: %s", loc)
	}

	if got := displayLocation(zap.NewNop(), "Mars/Olympus_Mons"); got != time.UTC {
		t.Fatalf("expected UTC fallback, got %s", got)
	}
}
