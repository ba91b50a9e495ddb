package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/parser"
)

func TestCalibrateUseCase_RecomputesBoundsWithoutContext(t *testing.T) {
	uc := NewCalibrateUseCase(parser.NewXMIParser(nil), nil, nil)

	var buf bytes.Buffer
	result, err := uc.Execute(context.Background(), CalibrateRequest{
		DiagramPath:  sampleDiagram,
		OutputWriter: &buf,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Source != domain.SourceContext {
		t.Errorf("Expected source context, got %s", result.Source)
	}
	if _, ok := result.Thresholds.Get(domain.KeyWMCMax); !ok {
		t.Error("Expected wmc_max to be computed from the model")
	}

	var values map[string]float64
	if err := json.Unmarshal(buf.Bytes(), &values); err != nil {
		t.Fatalf("Expected JSON thresholds, got %v\n%s", err, buf.String())
	}
	if _, ok := values["lrc_max"]; !ok {
		t.Errorf("Expected lrc_max in output, got %v", values)
	}
}

func TestCalibrateUseCase_ContextToYAMLFile(t *testing.T) {
	dir := t.TempDir()
	contextPath := filepath.Join(dir, "thesis.txt")
	if err := os.WriteFile(contextPath, []byte(strings.Repeat("word ", 3000)), 0644); err != nil {
		t.Fatalf("Failed to write context: %v", err)
	}
	out := filepath.Join(dir, "thresholds.yaml")

	uc := NewCalibrateUseCase(parser.NewXMIParser(nil), nil, nil)
	result, err := uc.Execute(context.Background(), CalibrateRequest{
		DiagramPath: sampleDiagram,
		ContextPath: contextPath,
		OutputPath:  out,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Thresholds.GodClassScore() != 0.5 {
		t.Errorf("Expected score_godclass 0.5, got %v", result.Thresholds.GodClassScore())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if !strings.Contains(string(data), "score_godclass: 0.5") {
		t.Errorf("Expected YAML thresholds, got:\n%s", data)
	}
}

func TestCalibrateUseCase_Errors(t *testing.T) {
	uc := NewCalibrateUseCase(parser.NewXMIParser(nil), nil, nil)

	if _, err := uc.Execute(context.Background(), CalibrateRequest{DiagramPath: sampleDiagram, Format: domain.OutputFormatDOT}); err == nil {
		t.Error("Expected error for DOT thresholds")
	}
	if _, err := uc.Execute(context.Background(), CalibrateRequest{DiagramPath: sampleDiagram, Mode: domain.CalibrationAI}); domain.ErrorCode(err) != domain.ErrCodeCalibration {
		t.Errorf("Expected %s without an AI factory, got %v", domain.ErrCodeCalibration, err)
	}
	if _, err := NewCalibrateUseCase(nil, nil, nil).Execute(context.Background(), CalibrateRequest{DiagramPath: sampleDiagram}); err == nil {
		t.Error("Expected error without a parser")
	}
}
