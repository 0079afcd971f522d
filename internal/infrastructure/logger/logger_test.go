package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewWithOutputJSON(t *testing.T) {
	var buf bytes.Buffer

	log := NewWithOutput(Config{Format: "json", Level: "info"}, &buf)
	log.Info().Str("account_id", "acc1").Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}

	if line["message"] != "hello" || line["account_id"] != "acc1" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestNewWithOutputConsole(t *testing.T) {
	var buf bytes.Buffer

	log := NewWithOutput(Config{Format: "console", Level: "info"}, &buf)
	log.Info().Msg("hello")

	output := buf.String()
	if strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Fatalf("expected console output, got JSON: %q", output)
	}
	if !strings.Contains(output, "hello") {
		t.Fatalf("expected message in output, got %q", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	log := NewWithOutput(Config{Format: "json", Level: "warn"}, &buf)
	log.Info().Msg("dropped")

	if buf.Len() != 0 {
		t.Fatalf("expected info line to be filtered at warn level, got %q", buf.String())
	}
}
