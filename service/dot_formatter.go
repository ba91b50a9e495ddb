package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/version"
)

// DOTFormatterConfig configures the DOT formatter behavior
type DOTFormatterConfig struct {
	// ClusterPackages groups classes of the same package in subgraphs
	ClusterPackages bool

	// ShowLegend includes a legend subgraph
	ShowLegend bool

	// FlaggedOnly keeps only flagged classes and their direct neighbours
	FlaggedOnly bool

	// RankDir is the layout direction: TB, LR, BT, RL
	RankDir string
}

// DefaultDOTFormatterConfig returns a DOTFormatterConfig with sensible defaults
func DefaultDOTFormatterConfig() *DOTFormatterConfig {
	return &DOTFormatterConfig{
		ClusterPackages: true,
		ShowLegend:      true,
		RankDir:         "LR",
	}
}

// DOTFormatter renders the class dependency graph for Graphviz with
// god-class and hub nodes highlighted
type DOTFormatter struct {
	config *DOTFormatterConfig
}

// NewDOTFormatter creates a new DOT formatter with the given configuration
func NewDOTFormatter(config *DOTFormatterConfig) *DOTFormatter {
	if config == nil {
		config = DefaultDOTFormatterConfig()
	}
	return &DOTFormatter{config: config}
}

type nodeKind int

const (
	nodePlain nodeKind = iota
	nodeSuspicious
	nodeGodClass
	nodeHub
)

// nodeColors is treated as a constant lookup table
var nodeColors = map[nodeKind]struct {
	fill   string
	border string
	label  string
}{
	nodePlain:      {fill: "#E8F5E9", border: "#66BB6A", label: "Class"},
	nodeSuspicious: {fill: "#FFD700", border: "#FFA500", label: "Suspicious"},
	nodeGodClass:   {fill: "#FF6B6B", border: "#DC143C", label: "God Class"},
	nodeHub:        {fill: "#CE93D8", border: "#8E24AA", label: "Hub"},
}

var validRankDirs = map[string]bool{
	"TB": true,
	"LR": true,
	"BT": true,
	"RL": true,
}

// FormatClassGraph formats the graph as DOT and returns the string
func (f *DOTFormatter) FormatClassGraph(model *domain.DesignModel, response *domain.AnalysisResponse) (string, error) {
	var sb strings.Builder
	if err := f.WriteClassGraph(model, response, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteClassGraph writes the class graph of model as DOT. Findings and
// hubs are matched by class name.
func (f *DOTFormatter) WriteClassGraph(model *domain.DesignModel, response *domain.AnalysisResponse, writer io.Writer) error {
	if model == nil {
		return domain.NewOutputError("DOT output needs the design model", nil)
	}
	if !validRankDirs[f.config.RankDir] {
		return fmt.Errorf("invalid rank direction %q: must be one of TB, LR, BT, RL", f.config.RankDir)
	}

	findings := make(map[string]domain.GodClassFinding)
	hubs := make(map[string]domain.HubCandidate)
	if response != nil {
		for _, fd := range response.GodClasses {
			findings[fd.Class] = fd
		}
		for _, h := range response.Hubs {
			hubs[h.Class] = h
		}
	}

	included := f.includedClasses(model, findings, hubs)

	fmt.Fprintf(writer, "/* archscan Class Graph - Generated: %s */\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(writer, "/* Version: %s */\n", version.GetVersion())
	fmt.Fprintln(writer, "digraph classes {")
	if len(included) == 0 {
		fmt.Fprintln(writer, "    /* No classes to draw */")
		fmt.Fprintln(writer, "}")
		return nil
	}
	fmt.Fprintf(writer, "    rankdir=%s;\n", f.config.RankDir)
	fmt.Fprintln(writer, "    node [shape=box, style=filled, fontname=\"Helvetica\"];")
	fmt.Fprintln(writer, "    edge [fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(writer)

	if f.config.ClusterPackages {
		f.writeClusters(writer, model, included, findings, hubs)
	} else {
		for _, c := range model.Classes() {
			if included[c.ID] {
				f.writeNode(writer, c, findings, hubs, "    ")
			}
		}
	}
	fmt.Fprintln(writer)

	fmt.Fprintln(writer, "    // Dependencies")
	for _, e := range model.Edges() {
		if !included[e.From] || !included[e.To] {
			continue
		}
		fmt.Fprintf(writer, "    %s -> %s", escapeDOTID(e.From), escapeDOTID(e.To))
		if _, ok := hubs[model.Class(e.To).Name]; ok {
			fmt.Fprintf(writer, " [color=\"%s\"]", nodeColors[nodeHub].border)
		}
		fmt.Fprintln(writer, ";")
	}

	if f.config.ShowLegend {
		fmt.Fprintln(writer)
		f.writeLegend(writer)
	}
	fmt.Fprintln(writer, "}")
	return nil
}

// includedClasses returns the ids to draw. With FlaggedOnly, a class is
// kept when it or one of its direct neighbours is flagged.
func (f *DOTFormatter) includedClasses(model *domain.DesignModel, findings map[string]domain.GodClassFinding, hubs map[string]domain.HubCandidate) map[string]bool {
	result := make(map[string]bool)
	flagged := func(c *domain.Class) bool {
		_, isFinding := findings[c.Name]
		_, isHub := hubs[c.Name]
		return isFinding || isHub
	}
	for _, c := range model.Classes() {
		if !f.config.FlaggedOnly || flagged(c) {
			result[c.ID] = true
		}
	}
	if !f.config.FlaggedOnly {
		return result
	}
	for _, e := range model.Edges() {
		from, to := model.Class(e.From), model.Class(e.To)
		if flagged(from) {
			result[e.To] = true
		}
		if flagged(to) {
			result[e.From] = true
		}
	}
	return result
}

func (f *DOTFormatter) writeClusters(writer io.Writer, model *domain.DesignModel, included map[string]bool, findings map[string]domain.GodClassFinding, hubs map[string]domain.HubCandidate) {
	var packages []string
	byPackage := make(map[string][]*domain.Class)
	for _, c := range model.Classes() {
		if !included[c.ID] {
			continue
		}
		if _, seen := byPackage[c.Package]; !seen {
			packages = append(packages, c.Package)
		}
		byPackage[c.Package] = append(byPackage[c.Package], c)
	}

	for i, pkg := range packages {
		indent := "    "
		if pkg != "" {
			fmt.Fprintf(writer, "    subgraph cluster_pkg_%d {\n", i)
			fmt.Fprintf(writer, "        label=\"%s\";\n", escapeDOTLabel(pkg))
			fmt.Fprintln(writer, "        style=rounded;")
			fmt.Fprintln(writer, "        color=\"#9E9E9E\";")
			indent = "        "
		}
		for _, c := range byPackage[pkg] {
			f.writeNode(writer, c, findings, hubs, indent)
		}
		if pkg != "" {
			fmt.Fprintln(writer, "    }")
		}
	}
}

func (f *DOTFormatter) writeNode(writer io.Writer, c *domain.Class, findings map[string]domain.GodClassFinding, hubs map[string]domain.HubCandidate, indent string) {
	kind := nodePlain
	var tooltip string

	if fd, ok := findings[c.Name]; ok {
		kind = nodeSuspicious
		if fd.IsGodClass() {
			kind = nodeGodClass
		}
		tooltip = fmt.Sprintf("%s %.2f\\nWMC: %d, ATFD: %d, TCC: %.2f",
			fd.Label, fd.Score, fd.Metrics.WMC, fd.Metrics.ATFD, fd.Metrics.TCC)
	}
	if h, ok := hubs[c.Name]; ok {
		// a god class that is also a hub keeps the god-class fill
		if kind != nodeGodClass {
			kind = nodeHub
		}
		hubInfo := fmt.Sprintf("hub rank %.4f\\nin: %d, out: %d", h.Rank, h.InDegree, h.OutDegree)
		if tooltip != "" {
			tooltip += "\\n" + hubInfo
		} else {
			tooltip = hubInfo
		}
	}

	colors := nodeColors[kind]
	fmt.Fprintf(writer, "%s%s [label=\"%s\", fillcolor=\"%s\", color=\"%s\"",
		indent, escapeDOTID(c.ID), escapeDOTLabel(c.Name), colors.fill, colors.border)
	if kind == nodeGodClass || kind == nodeHub {
		fmt.Fprint(writer, ", penwidth=2")
	}
	if tooltip != "" {
		fmt.Fprintf(writer, ", tooltip=\"%s\"", tooltip)
	}
	fmt.Fprintln(writer, "];")
}

func (f *DOTFormatter) writeLegend(writer io.Writer) {
	fmt.Fprintln(writer, "    // Legend")
	fmt.Fprintln(writer, "    subgraph cluster_legend {")
	fmt.Fprintln(writer, "        label=\"Legend\";")
	fmt.Fprintln(writer, "        style=filled;")
	fmt.Fprintln(writer, "        fillcolor=\"#F5F5F5\";")
	fmt.Fprintln(writer, "        color=\"#CCCCCC\";")
	fmt.Fprintln(writer, "        fontsize=10;")
	for _, kind := range []nodeKind{nodeGodClass, nodeSuspicious, nodeHub, nodePlain} {
		c := nodeColors[kind]
		fmt.Fprintf(writer, "        legend_%d [label=\"%s\", fillcolor=\"%s\", color=\"%s\"];\n",
			kind, c.label, c.fill, c.border)
	}
	fmt.Fprintln(writer, "    }")
}

// escapeDOTID escapes a string for use as a DOT node ID
func escapeDOTID(id string) string {
	replacer := strings.NewReplacer(
		"/", "__",
		".", "_",
		"-", "_",
		"@", "_at_",
		" ", "_",
		":", "_",
		"(", "_",
		")", "_",
		"[", "_",
		"]", "_",
		"{", "_",
		"}", "_",
		"#", "_",
		"<", "_",
		">", "_",
		"\"", "_",
	)
	escaped := replacer.Replace(id)

	if len(escaped) > 0 && !isValidDOTIDStart(escaped[0]) {
		escaped = "_" + escaped
	}
	return escaped
}

// escapeDOTLabel escapes a string for use as a DOT label.
// Backslash goes first to avoid double-escaping.
func escapeDOTLabel(label string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\r", "",
		"\t", "\\t",
	)
	return replacer.Replace(label)
}

func isValidDOTIDStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
