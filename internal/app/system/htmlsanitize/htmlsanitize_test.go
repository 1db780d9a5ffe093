package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/skprofiles/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Santos", "Santos"},
		{"trims", "  Purok 3 ", "Purok 3"},
		{"strips tags", "<b>Maria</b>", "Maria"},
		{"drops script", "Ana<script>alert('x')</script>", "Ana"},
		{"strips attributes", `<a href="javascript:alert(1)">Zone 1</a>`, "Zone 1"},
		{"keeps ampersand", "Dela Cruz & Sons", "Dela Cruz & Sons"},
		{"decodes entities", "O&#39;Neil", "O'Neil"},
		{"keeps ñ", "Peñafrancia", "Peñafrancia"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.PlainText(tt.input)
			if got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsPlainText_Empty(t *testing.T) {
	if !htmlsanitize.IsPlainText("") {
		t.Error("expected empty string to be plain text")
	}
}

func TestIsPlainText_NoTags(t *testing.T) {
	if !htmlsanitize.IsPlainText("Hello, World!") {
		t.Error("expected string without tags to be plain text")
	}
}

func TestIsPlainText_WithTags(t *testing.T) {
	if htmlsanitize.IsPlainText("<p>Hello</p>") {
		t.Error("expected string with tags to NOT be plain text")
	}
}
