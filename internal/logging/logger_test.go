package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "http")

	logger.Printf("listening on %s", ":8080")

	output := buf.String()
	if !strings.HasPrefix(output, "[http] ") {
		t.Errorf("Expected [http] prefix, got: %s", output)
	}
	if !strings.Contains(output, "listening on :8080") {
		t.Errorf("Expected message in output, got: %s", output)
	}
}

func TestNewWithWriter_NoComponent(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "").Print("plain")

	if strings.HasPrefix(buf.String(), "[") {
		t.Errorf("Expected no prefix, got: %s", buf.String())
	}
}
