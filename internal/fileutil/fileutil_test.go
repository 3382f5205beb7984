package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "report.docx")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", file, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "absent.docx"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s    string
		want bool
	}{
		{"corporate", false},
		{"./layout.docx", true},
		{"../shared/layout.docx", true},
		{"/absolute/layout.docx", true},
		{`C:\templates\layout.docx`, true},
		{"sub/dir", true},
	}

	for _, tt := range tests {
		if got := IsFilePath(tt.s); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestHasExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		ext  string
		want bool
	}{
		{"report.docx", ".docx", true},
		{"Report.DOCX", ".docx", true},
		{"archive.zip", ".docx", false},
		{"noext", ".docx", false},
	}

	for _, tt := range tests {
		if got := HasExt(tt.path, tt.ext); got != tt.want {
			t.Errorf("HasExt(%q, %q) = %v, want %v", tt.path, tt.ext, got, tt.want)
		}
	}
}

func TestStem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"report.docx", "report"},
		{"dir/report.docx", "report"},
		{"noext", "noext"},
		{"archive.tar.gz", "archive.tar"},
	}

	for _, tt := range tests {
		if got := Stem(tt.path); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
