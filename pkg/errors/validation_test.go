package errors

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidatePathSegment(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Orders", false},
		{"spaces", "data sources", false},
		{"dots inside", "v1.2 sales", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"slash", "sales/eu", true},
		{"backslash", `sales\eu`, true},
		{"control", "a\x01b", true},
		{"too long", strings.Repeat("a", 201), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathSegment(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePathSegment(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePathSegment(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestSanitizePathSegment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Orders", "Orders"},
		{"sales/eu", "sales-eu"},
		{`a\b`, "a-b"},
		{"tab\there", "tabhere"},
		{"  padded  ", "padded"},
		{"", "unnamed"},
		{"..", "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizePathSegment(tt.input)
			if got != tt.want {
				t.Errorf("SanitizePathSegment(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if err := ValidatePathSegment(got); err != nil {
				t.Errorf("sanitized segment %q does not validate: %v", got, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://tableau.example.com/", false},
		{"http", "http://localhost:8000/", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizePathSegment_RuneBoundary(t *testing.T) {
	name := strings.Repeat("a", 199) + "é"
	got := SanitizePathSegment(name)
	if got != strings.Repeat("a", 199) {
		t.Errorf("SanitizePathSegment() = %q, want the two-byte rune dropped whole", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("SanitizePathSegment() returned invalid UTF-8: %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ext   string
		want  string
	}{
		{"short", "Task Posted", ".md", "Task Posted.md"},
		{"separator", "sales/eu", ".svg", "sales-eu.svg"},
		{"empty", "", ".md", "unnamed.md"},
		{"long keeps extension", strings.Repeat("a", 198) + "é", ".md", strings.Repeat("a", 197) + ".md"},
		{"long multibyte", strings.Repeat("é", 120), ".md", strings.Repeat("é", 98) + ".md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFileName(tt.input, tt.ext)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q, %q) = %q, want %q", tt.input, tt.ext, got, tt.want)
			}
			if err := ValidatePathSegment(got); err != nil {
				t.Errorf("file name %q does not validate: %v", got, err)
			}
			if !utf8.ValidString(got) {
				t.Errorf("file name %q is not valid UTF-8", got)
			}
		})
	}
}
