// Package parser reads UML class diagrams exported as XMI into a design model
package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/ludo-technologies/archscan/domain"
	"go.uber.org/zap"
)

// UnnamedClass is the name given to classes without a name attribute
const UnnamedClass = "<unnamed>"

// XMI element types the parser understands
const (
	typeClass       = "uml:Class"
	typeInterface   = "uml:Interface"
	typePackage     = "uml:Package"
	typeDependency  = "uml:Dependency"
	typeAssociation = "uml:Association"
)

// ParseReport summarises what a parse produced and skipped
type ParseReport struct {
	Classes      int
	Edges        int
	SkippedEdges int
	Warnings     []string
}

func (r *ParseReport) skip(format string, args ...any) {
	r.SkippedEdges++
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// XMIParser builds design models from XMI documents
type XMIParser struct {
	logger *zap.Logger
}

// NewXMIParser creates a parser. A nil logger discards output.
func NewXMIParser(logger *zap.Logger) *XMIParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XMIParser{logger: logger}
}

// ParseFile parses the XMI file at path and returns the model with any
// warnings about skipped relations
func (p *XMIParser) ParseFile(path string) (*domain.DesignModel, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, domain.NewInvalidInputError(fmt.Sprintf("diagram not found: %s", path), err)
		}
		return nil, nil, domain.NewInvalidInputError(fmt.Sprintf("cannot open diagram %s", path), err)
	}
	defer f.Close()

	model, report, err := p.Parse(f)
	if err != nil {
		return nil, nil, err
	}
	p.logger.Debug("parsed diagram",
		zap.String("path", path),
		zap.Int("classes", report.Classes),
		zap.Int("edges", report.Edges),
		zap.Int("skipped_edges", report.SkippedEdges),
	)
	return model, report.Warnings, nil
}

// Parse reads an XMI document from r
func (p *XMIParser) Parse(r io.Reader) (*domain.DesignModel, *ParseReport, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, nil, domain.NewParseError("malformed XMI document", err)
	}

	model := domain.NewDesignModel()
	report := &ParseReport{}

	elements := xmlquery.Find(doc, "//packagedElement")

	for _, node := range elements {
		switch xmiAttr(node, "type") {
		case typeClass, typeInterface:
		default:
			continue
		}
		c := buildClass(node)
		if err := model.AddClass(c); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("class %q skipped: %v", c.Name, err))
			continue
		}
		report.Classes++
	}

	for _, dep := range xmlquery.Find(doc, "//clientDependency") {
		var client string
		if dep.Parent != nil {
			client = xmiAttr(dep.Parent, "id")
		}
		addEdge(model, report, "clientDependency", client, plainAttr(dep, "supplier"))
	}

	for _, node := range elements {
		kind := xmiAttr(node, "type")
		if kind != typeDependency && kind != typeAssociation {
			continue
		}
		client, supplier := relationEnds(node)
		addEdge(model, report, kind, client, supplier)
	}

	return model, report, nil
}

func buildClass(node *xmlquery.Node) *domain.Class {
	name := plainAttr(node, "name")
	if name == "" {
		name = UnnamedClass
	}
	c := domain.NewClass(xmiAttr(node, "id"), name, packageOf(node))

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch child.Data {
		case "ownedAttribute":
			c.AddAttribute(plainAttr(child, "name"), plainAttr(child, "type"))
		case "ownedOperation":
			c.AddOperation(plainAttr(child, "name"), parameterTypes(child)...)
		}
	}
	return c
}

func parameterTypes(op *xmlquery.Node) []string {
	var types []string
	for child := op.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == "ownedParameter" {
			types = append(types, plainAttr(child, "type"))
		}
	}
	return types
}

// packageOf returns the name of the nearest enclosing package
func packageOf(node *xmlquery.Node) string {
	for p := node.Parent; p != nil; p = p.Parent {
		if p.Type != xmlquery.ElementNode {
			continue
		}
		if strings.HasSuffix(p.Data, "Package") || xmiAttr(p, "type") == typePackage {
			return plainAttr(p, "name")
		}
	}
	return ""
}

// relationEnds reads client and supplier, falling back to the first and
// last memberEnd tokens
func relationEnds(node *xmlquery.Node) (string, string) {
	client := plainAttr(node, "client")
	supplier := plainAttr(node, "supplier")
	if client != "" && supplier != "" {
		return first(client), first(supplier)
	}

	ends := strings.Fields(plainAttr(node, "memberEnd"))
	if client == "" && len(ends) > 0 {
		client = ends[0]
	}
	if supplier == "" && len(ends) > 0 {
		supplier = ends[len(ends)-1]
	}
	return first(client), first(supplier)
}

// first returns the first whitespace-separated token of an id list
func first(ids string) string {
	if fields := strings.Fields(ids); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func addEdge(model *domain.DesignModel, report *ParseReport, kind, client, supplier string) {
	if client == "" || supplier == "" {
		report.skip("%s skipped: missing client or supplier", kind)
		return
	}
	before := model.EdgeCount()
	if err := model.AddEdge(client, supplier); err != nil {
		report.skip("%s %s -> %s skipped: %v", kind, client, supplier, err)
		return
	}
	if model.EdgeCount() > before {
		report.Edges++
	}
}

// xmiAttr returns the value of an attribute in the XMI namespace
func xmiAttr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local && isXMINamespace(a.Name.Space, a.NamespaceURI) {
			return a.Value
		}
	}
	return ""
}

// plainAttr returns the value of an unqualified attribute
func plainAttr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

func isXMINamespace(values ...string) bool {
	for _, v := range values {
		if v == "xmi" || strings.Contains(v, "omg.org/XMI") || strings.Contains(v, "omg.org/spec/XMI") {
			return true
		}
	}
	return false
}
