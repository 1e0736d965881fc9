package logutil

import (
	"log/slog"
	"strings"
	"testing"
)

func TestGetLogger_DiscardsByDefault(t *testing.T) {
	SetOutput(nil, 0)
	logger := GetLogger("quiet")
	// Must not panic, and must report disabled so callers can skip
	// expensive argument construction.
	logger.Info("dropped")
	if logger.Enabled(nil, slog.LevelError) {
		t.Error("logger enabled without an output")
	}
}

func TestSetOutput_WiresExistingLoggers(t *testing.T) {
	logger := GetLogger("wired")
	var sb strings.Builder
	SetOutput(&sb, slog.LevelInfo)
	defer SetOutput(nil, 0)

	logger.Info("hello", "n", 3)

	out := sb.String()
	for _, want := range []string{"hello", "logger=wired", "n=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestSetOutput_Level(t *testing.T) {
	var sb strings.Builder
	SetOutput(&sb, slog.LevelWarn)
	defer SetOutput(nil, 0)

	logger := GetLogger("lvl")
	logger.Info("too low")
	logger.Warn("loud enough")

	out := sb.String()
	if strings.Contains(out, "too low") {
		t.Error("info record passed a warn-level filter")
	}
	if !strings.Contains(out, "loud enough") {
		t.Error("warn record missing")
	}
}

func TestWithAttrs(t *testing.T) {
	var sb strings.Builder
	SetOutput(&sb, slog.LevelInfo)
	defer SetOutput(nil, 0)

	logger := GetLogger("base").With("component", "demo")
	logger.Info("hi")

	if !strings.Contains(sb.String(), "component=demo") {
		t.Errorf("output %q missing attached attribute", sb.String())
	}
}
