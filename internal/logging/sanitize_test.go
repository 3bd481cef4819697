package logging

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"clean string", "status UP", 64, "status UP"},
		{"newline injection", "UP\nFAKE LOG: hacked", 64, "UP\\nFAKE LOG: hacked"},
		{"CRLF", "line\r\ninjection", 64, "line\\r\\ninjection"},
		{"tab", "a\tb", 64, "a\\tb"},
		{"null byte", "zero\x00byte", 64, "zerobyte"},
		{"bell", "bell\x07char", 64, "bellchar"},
		{"empty string", "", 64, ""},
		{"truncation", strings.Repeat("a", 100), 64, strings.Repeat("a", 64) + "..."},
		{"exact length", strings.Repeat("b", 64), 64, strings.Repeat("b", 64)},
		{"multi-byte at cut", "aé", 2, "a..."},
		{"multi-byte fits", "aé", 3, "aé"},
		{"cut inside emoji", "ok🙂🙂", 5, "ok..."},
		{"no limit", strings.Repeat("c", 300), 0, strings.Repeat("c", 300)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("Sanitize(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Sanitize(%q, %d) returned invalid UTF-8 %q", tt.input, tt.maxLen, got)
			}
		})
	}
}
