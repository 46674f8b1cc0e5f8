// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitLevels(t *testing.T) {
	defer Init(DefaultConfig())

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			Init(Config{Level: tt.level})
			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Errorf("level %q → %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestInitWritesJSON(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})

	Info().Str("title", "Dune").Msg("Book created")

	out := buf.String()
	if !strings.Contains(out, `"title":"Dune"`) || !strings.Contains(out, `"message":"Book created"`) {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})

	l := WithComponent("store")
	l.Info().Msg("opened")

	if !strings.Contains(buf.String(), `"component":"store"`) {
		t.Errorf("component field missing: %s", buf.String())
	}
}

func TestCtxAddsRequestID(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})

	ctx := ContextWithRequestID(context.Background(), "req-123")
	Ctx(ctx).Info().Msg("handled")

	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Errorf("request id missing: %s", buf.String())
	}
}

func TestRequestIDFromContextMissing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty", got)
	}
}

func TestLoggerFromContextFallsBack(t *testing.T) {
	got := LoggerFromContext(context.Background())
	if got.GetLevel() != Logger().GetLevel() {
		t.Error("LoggerFromContext without stored logger should return the global logger")
	}

	var buf bytes.Buffer
	stored := NewTestLogger(&buf)
	ctx := ContextWithLogger(context.Background(), stored)
	l := LoggerFromContext(ctx)
	l.Info().Msg("stored")
	if !strings.Contains(buf.String(), "stored") {
		t.Error("stored logger was not returned from context")
	}
}
