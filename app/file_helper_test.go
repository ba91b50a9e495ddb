package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/archscan/domain"
)

const sampleDiagram = "../internal/parser/testdata/sample.xmi"

func TestFileHelperIsDiagramFile(t *testing.T) {
	helper := NewFileHelper()

	tests := []struct {
		path     string
		expected bool
	}{
		{"bank.xmi", true},
		{"bank.XMI", true},
		{"export.xml", true},
		{"model.uml", true},
		{"bank.txt", false},
		{"bank", false},
		{"bank.xmi.bak", false},
	}

	for _, tt := range tests {
		if got := helper.IsDiagramFile(tt.path); got != tt.expected {
			t.Errorf("IsDiagramFile(%s) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

func TestFileHelperResolveDiagram(t *testing.T) {
	helper := NewFileHelper()
	dir := t.TempDir()

	if _, err := helper.ResolveDiagram(sampleDiagram); err != nil {
		t.Errorf("Expected sample diagram to resolve, got %v", err)
	}

	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	for _, path := range []string{"", txt, filepath.Join(dir, "missing.xmi"), dir + string(os.PathSeparator) + "sub.xmi"} {
		_, err := helper.ResolveDiagram(path)
		if err == nil {
			t.Errorf("Expected error for %q", path)
			continue
		}
		if domain.ErrorCode(err) != domain.ErrCodeInvalidInput {
			t.Errorf("Expected %s for %q, got %s", domain.ErrCodeInvalidInput, path, domain.ErrorCode(err))
		}
	}
}

func TestFileHelperReadContext(t *testing.T) {
	helper := NewFileHelper()
	dir := t.TempDir()

	text, err := helper.ReadContext("")
	if err != nil || text != "" {
		t.Errorf("Expected empty text for no path, got %q, %v", text, err)
	}

	path := filepath.Join(dir, "thesis.txt")
	if err := os.WriteFile(path, []byte("banking platform"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	text, err = helper.ReadContext(path)
	if err != nil {
		t.Fatalf("ReadContext failed: %v", err)
	}
	if text != "banking platform" {
		t.Errorf("Expected file content, got %q", text)
	}

	binary := filepath.Join(dir, "thesis.pdf")
	if err := os.WriteFile(binary, []byte{0xff, 0xfe, 0x00}, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := helper.ReadContext(binary); err == nil {
		t.Error("Expected error for non UTF-8 context")
	}
	if _, err := helper.ReadContext(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Expected error for missing context")
	}
}

func TestFileHelperWriteOutput(t *testing.T) {
	helper := NewFileHelper()
	path := filepath.Join(t.TempDir(), "reports", "out.json")

	err := helper.WriteOutput(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "{}")
		return err
	})
	if err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected {}, got %q", data)
	}

	boom := errors.New("boom")
	if err := helper.WriteOutput(path, func(io.Writer) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Expected write error to propagate, got %v", err)
	}
}
