package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/testutil"
)

func TestEscapeDOTID(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain id", "cls_ui_1", "cls_ui_1"},
		{"eclipse id", "_Xy.12-ab", "_Xy_12_ab"},
		{"starts with number", "123abc", "_123abc"},
		{"uuid with braces", "{EAID-1}", "_EAID_1_"},
		{"hash", "a#b", "a_b"},
		{"empty string", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := escapeDOTID(tc.input); got != tc.expected {
				t.Errorf("escapeDOTID(%q): expected %q, got %q", tc.input, tc.expected, got)
			}
		})
	}
}

func TestEscapeDOTLabel(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Manager", "Manager"},
		{`say "hi"`, `say \"hi\"`},
		{"a\\b", "a\\\\b"},
		{"line1\nline2", "line1\\nline2"},
		{"tab\there", "tab\\there"},
		{"cr\r", "cr"},
	}

	for _, tc := range testCases {
		if got := escapeDOTLabel(tc.input); got != tc.expected {
			t.Errorf("escapeDOTLabel(%q): expected %q, got %q", tc.input, tc.expected, got)
		}
	}
}

func dotModel(t *testing.T) *domain.DesignModel {
	return testutil.NewModelBuilder(t).
		Class("Manager", "bank.service").
		Class("Session", "bank.util").
		Class("Screen", "bank.ui").
		Class("Loose", "").
		Class("Far", "bank.dao").
		Edge("Screen", "Manager").
		Edge("Manager", "Session").
		Edge("Screen", "Session").
		Edge("Loose", "Far").
		Build()
}

func dotResponse() *domain.AnalysisResponse {
	return &domain.AnalysisResponse{
		GodClasses: []domain.GodClassFinding{{Class: "Manager", Score: 0.8, Label: domain.LabelGodClass}},
		Hubs:       []domain.HubCandidate{{Class: "Session", Rank: 0.5, Degree: 2, InDegree: 2}},
	}
}

func TestDOTFormatter_WriteClassGraph(t *testing.T) {
	var buf bytes.Buffer
	err := NewDOTFormatter(nil).WriteClassGraph(dotModel(t), dotResponse(), &buf)
	testutil.AssertNoError(t, err)

	out := buf.String()
	expected := []string{
		"digraph classes {",
		"rankdir=LR;",
		`subgraph cluster_pkg_0 {`,
		`label="bank.service";`,
		`Manager [label="Manager", fillcolor="#FF6B6B", color="#DC143C", penwidth=2, tooltip="god-class 0.80`,
		`Session [label="Session", fillcolor="#CE93D8", color="#8E24AA", penwidth=2, tooltip="hub rank 0.5000`,
		`Screen [label="Screen", fillcolor="#E8F5E9"`,
		`Screen -> Manager;`,
		`Manager -> Session [color="#8E24AA"];`,
		`Loose -> Far;`,
		"subgraph cluster_legend {",
	}
	for _, want := range expected {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in DOT output:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "}") {
		t.Error("Expected DOT output to close the digraph")
	}
}

func TestDOTFormatter_FlaggedOnly(t *testing.T) {
	cfg := DefaultDOTFormatterConfig()
	cfg.FlaggedOnly = true
	cfg.ShowLegend = false
	cfg.ClusterPackages = false

	out, err := NewDOTFormatter(cfg).FormatClassGraph(dotModel(t), dotResponse())
	testutil.AssertNoError(t, err)

	if strings.Contains(out, "Loose") || strings.Contains(out, "Far") {
		t.Errorf("Expected unflagged components to be dropped:\n%s", out)
	}
	if !strings.Contains(out, "Screen") {
		t.Error("Expected neighbours of flagged classes to stay")
	}
	if strings.Contains(out, "cluster_legend") || strings.Contains(out, "cluster_pkg") {
		t.Error("Expected legend and clusters to be disabled")
	}
}

func TestDOTFormatter_GodClassHubKeepsGodClassFill(t *testing.T) {
	resp := dotResponse()
	resp.Hubs = append(resp.Hubs, domain.HubCandidate{Class: "Manager", Rank: 0.2})

	out, err := NewDOTFormatter(nil).FormatClassGraph(dotModel(t), resp)
	testutil.AssertNoError(t, err)

	if !strings.Contains(out, `Manager [label="Manager", fillcolor="#FF6B6B"`) {
		t.Errorf("Expected god-class fill for a god class that is also a hub:\n%s", out)
	}
}

func TestDOTFormatter_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := NewDOTFormatter(nil).WriteClassGraph(nil, nil, &buf); err == nil {
		t.Error("Expected error for nil model")
	}

	cfg := DefaultDOTFormatterConfig()
	cfg.RankDir = "XX"
	if err := NewDOTFormatter(cfg).WriteClassGraph(dotModel(t), nil, &buf); err == nil {
		t.Error("Expected error for invalid rank direction")
	}
}

func TestDOTFormatter_EmptyModel(t *testing.T) {
	out, err := NewDOTFormatter(nil).FormatClassGraph(domain.NewDesignModel(), nil)
	testutil.AssertNoError(t, err)
	if !strings.Contains(out, "No classes to draw") {
		t.Errorf("Expected empty graph comment, got:\n%s", out)
	}
}

func TestOutputFormatter_DOT(t *testing.T) {
	var buf bytes.Buffer
	err := NewOutputFormatter().Write(dotResponse(), dotModel(t), domain.OutputFormatDOT, &buf)
	testutil.AssertNoError(t, err)
	if !strings.Contains(buf.String(), "digraph classes") {
		t.Errorf("Expected DOT output, got:\n%s", buf.String())
	}
}
