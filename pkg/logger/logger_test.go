package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf)

	log.WithFields(map[string]interface{}{
		"provider": "eodhd",
		"count":    3,
	}).Info("screen completed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}

	if entry["provider"] != "eodhd" {
		t.Errorf("provider field = %v, want eodhd", entry["provider"])
	}
	if entry["count"] != float64(3) {
		t.Errorf("count field = %v, want 3", entry["count"])
	}
	if entry["message"] != "screen completed" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf)

	log.WithError(errors.New("boom")).Error("request failed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}

	if entry["error"] != "boom" {
		t.Errorf("error field = %v, want boom", entry["error"])
	}
}
