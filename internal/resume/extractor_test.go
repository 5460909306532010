package resume_test

import (
	"strings"
	"testing"

	"github.com/shubhamtodkar06/Automate-recruitment/internal/resume"
)

func TestExtract_PlainText(t *testing.T) {
	e := resume.NewDocExtractor(t.TempDir())

	text, err := e.Extract("resume.txt", strings.NewReader("ten years of Go"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "ten years of Go" {
		t.Errorf("text = %q", text)
	}
}

func TestExtract_UnsupportedType(t *testing.T) {
	e := resume.NewDocExtractor(t.TempDir())

	if _, err := e.Extract("resume.exe", strings.NewReader("binary")); err == nil {
		t.Error("Extract(.exe) expected error, got nil")
	}
}

func TestExtract_EmptyText(t *testing.T) {
	e := resume.NewDocExtractor(t.TempDir())

	if _, err := e.Extract("resume.txt", strings.NewReader("   \n  ")); err == nil {
		t.Error("Extract of a blank document expected error, got nil")
	}
}

// Path components in the uploaded filename must not escape the uploads dir.
func TestExtract_StripsPath(t *testing.T) {
	dir := t.TempDir()
	e := resume.NewDocExtractor(dir)

	if _, err := e.Extract("../../etc/resume.txt", strings.NewReader("content")); err != nil {
		t.Fatalf("Extract: %v", err)
	}
}
