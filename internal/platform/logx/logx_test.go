// internal/platform/logx/logx_test.go
package logx

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	logger := New()
	if logger == nil {
		t.Fatal("New() should return a logger, got nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"dbg", LevelDebug},
		{"  debug  ", LevelDebug},
		{"info", LevelInfo},
		{"inf", LevelInfo},
		{"", LevelInfo}, // empty defaults to Info
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"err", LevelError},
		{"ERROR", LevelError},
		{"garbage", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestKVFields(t *testing.T) {
	fields := kvFields("key1", "value1", "count", 42, "dangling")

	if fields["key1"] != "value1" {
		t.Errorf("key1: got %v", fields["key1"])
	}
	if fields["count"] != 42 {
		t.Errorf("count: got %v", fields["count"])
	}
	if fields["dangling"] != "(missing)" {
		t.Errorf("dangling: got %v", fields["dangling"])
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelDebug)

	scoped := logger.With("service", "test", "version", "1.0")
	scoped.Info("test message")

	output := buf.String()
	for _, want := range []string{"service=test", "version=1.0", "test message", "level=info"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}
}

func TestLogger_With_Immutable(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelDebug)

	_ = logger.With("service", "test")
	logger.Info("original")

	if strings.Contains(buf.String(), "service=test") {
		t.Errorf("original logger output should not contain scope: %s", buf.String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelWarn)

	logger.Debug("debug line")
	logger.Info("info line")
	logger.Warn("warn line")

	output := buf.String()
	if strings.Contains(output, "debug line") || strings.Contains(output, "info line") {
		t.Errorf("lines below warn should be filtered: %s", output)
	}
	if !strings.Contains(output, "warn line") {
		t.Errorf("warn line missing: %s", output)
	}

	logger.SetLevel(LevelDebug)
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("SetLevel should lower the threshold: %s", buf.String())
	}
}

func TestLogger_Err(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelDebug)

	logger.Err(nil, "phase", "noop")
	if buf.Len() != 0 {
		t.Errorf("Err(nil) should not log, got: %s", buf.String())
	}

	logger.Err(errors.New("boom"), "phase", "run")
	output := buf.String()
	if !strings.Contains(output, "error=boom") || !strings.Contains(output, "phase=run") {
		t.Errorf("unexpected error output: %s", output)
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.With("worker", i).Info("tick")
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "tick"); got != 20 {
		t.Errorf("expected 20 lines, got %d", got)
	}
}
