package shared

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name    string
		input   string
		want    log.Level
		wantErr bool
	}{
		{name: "empty defaults to info", input: "", want: log.InfoLevel},
		{name: "debug", input: "debug", want: log.DebugLevel},
		{name: "warn", input: "warn", want: log.WarnLevel},
		{name: "unknown", input: "chatty", want: log.InfoLevel, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("debug messages hidden until level changes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		logger.Debug("hidden")
		if strings.Contains(buf.String(), "hidden") {
			t.Error("debug output should be suppressed at info level")
		}

		SetLogLevel(logger, log.DebugLevel)
		logger.Debug("visible")
		if !strings.Contains(buf.String(), "visible") {
			t.Error("debug output should be written at debug level")
		}
	})

	t.Run("child logger carries fields", func(t *testing.T) {
		var buf bytes.Buffer
		child := WithLogger(NewLogger(&buf), "run", "abc123")

		child.Info("started")
		if !strings.Contains(buf.String(), "run=abc123") {
			t.Errorf("expected run field in output, got %q", buf.String())
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected 36 character UUID, got %d", len(a))
	}
	if got := ShortID(a); got != a[:8] {
		t.Errorf("ShortID() = %s, want %s", got, a[:8])
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID() of short input = %s, want abc", got)
	}
}
