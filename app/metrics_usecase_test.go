package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/analyzer"
	"github.com/ludo-technologies/archscan/internal/parser"
)

func TestMetricsUseCase_Execute(t *testing.T) {
	uc := NewMetricsUseCase(parser.NewXMIParser(nil), nil)

	var buf bytes.Buffer
	dump, err := uc.Execute(context.Background(), sampleDiagram, "", &buf, "")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if dump.Classes != 5 || len(dump.Raw.WMC) != 5 {
		t.Errorf("Expected 5 classes, got %d (%d WMC values)", dump.Classes, len(dump.Raw.WMC))
	}
	wmc := dump.Stats[analyzer.MetricWMC]
	if wmc.Min != 0 || wmc.Max != 5 {
		t.Errorf("Expected WMC range [0, 5], got %+v", wmc)
	}
	if !strings.Contains(buf.String(), `"classes": 5`) {
		t.Errorf("Expected JSON dump by default, got:\n%s", buf.String())
	}
}

func TestMetricsUseCase_WritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "metrics.yaml")
	uc := NewMetricsUseCase(parser.NewXMIParser(nil), nil)

	if _, err := uc.Execute(context.Background(), sampleDiagram, domain.OutputFormatYAML, nil, out); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if !strings.Contains(string(data), "classes: 5") {
		t.Errorf("Expected YAML dump, got:\n%s", data)
	}
}

func TestMetricsUseCase_MissingDiagram(t *testing.T) {
	uc := NewMetricsUseCase(parser.NewXMIParser(nil), nil)
	if _, err := uc.Execute(context.Background(), "missing.xmi", "", nil, ""); err == nil {
		t.Error("Expected error for missing diagram")
	}
}
