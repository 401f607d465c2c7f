package database

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSourceURL(t *testing.T) {
	if _, err := sourceURL(""); err == nil {
		t.Error("sourceURL(\"\") expected error")
	}

	got, err := sourceURL("migrations")
	if err != nil {
		t.Fatalf("sourceURL() unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "file://") {
		t.Errorf("sourceURL() = %q, want file:// prefix", got)
	}
	if !strings.HasSuffix(got, "/migrations") {
		t.Errorf("sourceURL() = %q, want /migrations suffix", got)
	}

	abs := filepath.Join(t.TempDir(), "m")
	got, err = sourceURL(abs)
	if err != nil {
		t.Fatalf("sourceURL() unexpected error: %v", err)
	}
	if got != "file://"+filepath.ToSlash(abs) {
		t.Errorf("sourceURL(%q) = %q", abs, got)
	}
}
