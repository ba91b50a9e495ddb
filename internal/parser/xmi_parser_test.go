package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/archscan/domain"
)

const samplePath = "testdata/sample.xmi"

func TestParseFile_Sample(t *testing.T) {
	model, warnings, err := NewXMIParser(nil).ParseFile(samplePath)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if model.Class("cls_ui_1") == nil {
		t.Fatal("Expected cls_ui_1 to be parsed")
	}
	if got := model.Class("cls_service_1").Name; got != "AccountManager" {
		t.Errorf("Expected cls_service_1 name AccountManager, got %s", got)
	}
	if model.Len() != 5 {
		t.Errorf("Expected 5 classes, got %d", model.Len())
	}
	if model.EdgeCount() != 3 {
		t.Errorf("Expected 3 edges, got %d", model.EdgeCount())
	}
	if len(warnings) != 3 {
		t.Errorf("Expected 3 warnings, got %d: %v", len(warnings), warnings)
	}
}

func TestParse_ClassOrder(t *testing.T) {
	model := parseSample(t)

	expected := []string{"cls_ui_1", "cls_service_1", "ifc_service_1", "cls_dao_1", "cls_orphan"}
	classes := model.Classes()
	if len(classes) != len(expected) {
		t.Fatalf("Expected %d classes, got %d", len(expected), len(classes))
	}
	for i, id := range expected {
		if classes[i].ID != id {
			t.Errorf("Expected class %d to be %s, got %s", i, id, classes[i].ID)
		}
	}
}

func TestParse_Members(t *testing.T) {
	model := parseSample(t)

	manager := model.Class("cls_service_1")
	if len(manager.Attributes) != 2 {
		t.Errorf("Expected 2 attributes, got %d", len(manager.Attributes))
	}
	if manager.Attributes[0].Name != "balance" || manager.Attributes[0].DeclaredType != "Double" {
		t.Errorf("Expected balance:Double, got %+v", manager.Attributes[0])
	}
	if len(manager.Operations) != 5 {
		t.Fatalf("Expected 5 operations, got %d", len(manager.Operations))
	}

	transfer := manager.Operations[2]
	if transfer.Name != "transfer" {
		t.Errorf("Expected third operation transfer, got %s", transfer.Name)
	}
	if len(transfer.ParameterTypes) != 2 || transfer.ParameterTypes[0] != "String" || transfer.ParameterTypes[1] != "Double" {
		t.Errorf("Expected parameter types [String Double], got %v", transfer.ParameterTypes)
	}
}

func TestParse_Packages(t *testing.T) {
	model := parseSample(t)

	testCases := []struct {
		id       string
		expected string
	}{
		{"cls_ui_1", "banking.ui"},
		{"cls_service_1", "banking.service"},
		{"ifc_service_1", "banking.service"},
		{"cls_dao_1", "banking.dao"},
		{"cls_orphan", ""},
	}

	for _, tc := range testCases {
		if got := model.Class(tc.id).Package; got != tc.expected {
			t.Errorf("%s: expected package %q, got %q", tc.id, tc.expected, got)
		}
	}
}

func TestParse_UnnamedClass(t *testing.T) {
	model := parseSample(t)
	if got := model.Class("cls_orphan").Name; got != UnnamedClass {
		t.Errorf("Expected %s, got %s", UnnamedClass, got)
	}
}

func TestParse_Edges(t *testing.T) {
	model := parseSample(t)

	testCases := []struct {
		from, to string
	}{
		{"cls_ui_1", "cls_service_1"},
		{"cls_service_1", "cls_dao_1"},
		{"cls_service_1", "ifc_service_1"},
	}
	for _, tc := range testCases {
		if !model.Class(tc.from).DependsOn(tc.to) {
			t.Errorf("Expected edge %s -> %s", tc.from, tc.to)
		}
	}

	dao := model.Class("cls_dao_1")
	if dao.OutgoingCount() != 0 {
		t.Errorf("Expected self and dangling edges to be skipped, got outgoing %v", dao.Outgoing())
	}
	if dao.IncomingCount() != 1 {
		t.Errorf("Expected cls_dao_1 incoming 1, got %d", dao.IncomingCount())
	}
}

func TestParse_Report(t *testing.T) {
	f, err := os.Open(samplePath)
	if err != nil {
		t.Fatalf("Failed to open sample: %v", err)
	}
	defer f.Close()

	_, report, err := NewXMIParser(nil).Parse(f)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if report.Classes != 5 || report.Edges != 3 || report.SkippedEdges != 3 {
		t.Errorf("Expected report {5 3 3}, got {%d %d %d}", report.Classes, report.Edges, report.SkippedEdges)
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	doc := `<?xml version="1.0"?><xmi:XMI xmlns:xmi="http://www.omg.org/XMI"/>`

	model, report, err := NewXMIParser(nil).Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if model.Len() != 0 || report.Edges != 0 {
		t.Errorf("Expected empty model, got %d classes and %d edges", model.Len(), report.Edges)
	}
}

func TestParse_DuplicateIDKeepsFirst(t *testing.T) {
	doc := `<xmi:XMI xmlns:xmi="http://www.omg.org/XMI" xmlns:uml="http://www.omg.org/spec/UML/20090901">
  <packagedElement xmi:type="uml:Class" xmi:id="c1" name="First"/>
  <packagedElement xmi:type="uml:Class" xmi:id="c1" name="Second"/>
</xmi:XMI>`

	model, report, err := NewXMIParser(nil).Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if model.Len() != 1 || model.Class("c1").Name != "First" {
		t.Errorf("Expected only First to survive, got %d classes", model.Len())
	}
	if len(report.Warnings) != 1 {
		t.Errorf("Expected 1 warning, got %v", report.Warnings)
	}
}

func TestParse_AssociationMixesClientAndMemberEnd(t *testing.T) {
	doc := `<xmi:XMI xmlns:xmi="http://www.omg.org/XMI" xmlns:uml="http://www.omg.org/spec/UML/20090901">
  <packagedElement xmi:type="uml:Class" xmi:id="a" name="A"/>
  <packagedElement xmi:type="uml:Class" xmi:id="b" name="B"/>
  <packagedElement xmi:type="uml:Association" xmi:id="r" client="b" memberEnd="b a"/>
</xmi:XMI>`

	model, _, err := NewXMIParser(nil).Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	// client from the attribute, supplier from the last memberEnd token
	if !model.Class("b").DependsOn("a") {
		t.Error("Expected edge b -> a")
	}
	if model.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", model.EdgeCount())
	}
}

func TestParse_MalformedXML(t *testing.T) {
	_, _, err := NewXMIParser(nil).Parse(strings.NewReader(`<xmi:XMI xmlns:xmi="http://www.omg.org/XMI"><packagedElement name="broken></xmi:XMI>`))
	if err == nil {
		t.Fatal("Expected error for malformed XML")
	}
	if code := domain.ErrorCode(err); code != domain.ErrCodeParseError {
		t.Errorf("Expected %s, got %s", domain.ErrCodeParseError, code)
	}
}

func TestParseFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xmi")

	_, _, err := NewXMIParser(nil).ParseFile(path)
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist in chain, got %v", err)
	}
	if code := domain.ErrorCode(err); code != domain.ErrCodeInvalidInput {
		t.Errorf("Expected %s, got %s", domain.ErrCodeInvalidInput, code)
	}
}

func parseSample(t *testing.T) *domain.DesignModel {
	t.Helper()
	model, _, err := NewXMIParser(nil).ParseFile(samplePath)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	return model
}
