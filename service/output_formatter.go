package service

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/analyzer"
	"gopkg.in/yaml.v3"
)

// OutputFormatterImpl implements domain.OutputFormatter
type OutputFormatterImpl struct {
	dot *DOTFormatter
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{dot: NewDOTFormatter(nil)}
}

// NewOutputFormatterWithDOT creates a formatter using a configured DOT formatter
func NewOutputFormatterWithDOT(dot *DOTFormatter) *OutputFormatterImpl {
	if dot == nil {
		dot = NewDOTFormatter(nil)
	}
	return &OutputFormatterImpl{dot: dot}
}

// WriteJSON writes data as indented JSON
func WriteJSON(writer io.Writer, data any) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML
func WriteYAML(writer io.Writer, data any) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// ReportMetadata carries run information next to the findings
type ReportMetadata struct {
	Diagram         string                 `json:"diagram" yaml:"diagram"`
	Version         string                 `json:"version" yaml:"version"`
	GeneratedAt     string                 `json:"generated_at" yaml:"generated_at"`
	DurationMs      int64                  `json:"duration_ms" yaml:"duration_ms"`
	ThresholdSource domain.ThresholdSource `json:"threshold_source" yaml:"threshold_source"`
	Thresholds      domain.Thresholds      `json:"thresholds" yaml:"thresholds"`
	Summary         domain.AnalysisSummary `json:"summary" yaml:"summary"`
	Warnings        []string               `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// AnalysisReport is the serialised form of an analysis: god_class findings,
// hub_like as ordered class names and hub_like_details with the ranks
type AnalysisReport struct {
	GodClass       []domain.GodClassFinding `json:"god_class" yaml:"god_class"`
	HubLike        []string                 `json:"hub_like" yaml:"hub_like"`
	HubLikeDetails []domain.HubCandidate    `json:"hub_like_details" yaml:"hub_like_details"`
	Metadata       ReportMetadata           `json:"metadata" yaml:"metadata"`
}

// NewAnalysisReport converts a response into its report shape
func NewAnalysisReport(response *domain.AnalysisResponse) *AnalysisReport {
	godClasses := response.GodClasses
	if godClasses == nil {
		godClasses = []domain.GodClassFinding{}
	}
	hubs := response.Hubs
	if hubs == nil {
		hubs = []domain.HubCandidate{}
	}
	return &AnalysisReport{
		GodClass:       godClasses,
		HubLike:        domain.HubNames(hubs),
		HubLikeDetails: hubs,
		Metadata: ReportMetadata{
			Diagram:         response.Diagram,
			Version:         response.Version,
			GeneratedAt:     response.GeneratedAt,
			DurationMs:      response.DurationMs,
			ThresholdSource: response.ThresholdSource,
			Thresholds:      response.Thresholds,
			Summary:         response.Summary,
			Warnings:        response.Warnings,
		},
	}
}

// Write writes the analysis response in the specified format. The model
// is only needed for DOT output.
func (f *OutputFormatterImpl) Write(response *domain.AnalysisResponse, model *domain.DesignModel, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("nothing to write", nil)
	}
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, NewAnalysisReport(response))
	case domain.OutputFormatYAML:
		return WriteYAML(writer, NewAnalysisReport(response))
	case domain.OutputFormatText, "":
		return f.writeText(response, writer)
	case domain.OutputFormatDOT:
		return f.dot.WriteClassGraph(model, response, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// labelStyles colours the god-class labels in text output
type labelStyles struct {
	godClass   lipgloss.Style
	suspicious lipgloss.Style
	hub        lipgloss.Style
	header     lipgloss.Style
	muted      lipgloss.Style
}

func newLabelStyles(writer io.Writer) labelStyles {
	r := lipgloss.NewRenderer(writer)
	return labelStyles{
		godClass:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		suspicious: r.NewStyle().Foreground(lipgloss.Color("11")),
		hub:        r.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		header:     r.NewStyle().Bold(true),
		muted:      r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (s labelStyles) label(l domain.GodClassLabel) string {
	text := "[" + strings.ToUpper(string(l)) + "]"
	if l == domain.LabelGodClass {
		return s.godClass.Render(text)
	}
	return s.suspicious.Render(text)
}

// writeText writes the analysis response as plain text
func (f *OutputFormatterImpl) writeText(response *domain.AnalysisResponse, writer io.Writer) error {
	st := newLabelStyles(writer)

	fmt.Fprintf(writer, "\n%s\n", st.header.Render("=== archscan Analysis Report ==="))
	if response.Diagram != "" {
		fmt.Fprintf(writer, "Diagram: %s\n", response.Diagram)
	}
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Duration: %dms\n", response.DurationMs)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Classes analyzed: %d\n", response.Summary.Classes)
	fmt.Fprintf(writer, "  Dependencies: %d\n", response.Summary.Edges)
	fmt.Fprintf(writer, "  God classes: %d\n", response.Summary.GodClasses)
	fmt.Fprintf(writer, "  Suspicious: %d\n", response.Summary.Suspicious)
	fmt.Fprintf(writer, "  Hubs: %d\n", response.Summary.Hubs)
	fmt.Fprintf(writer, "\n")

	source := response.ThresholdSource
	if source == "" {
		source = domain.SourceBase
	}
	fmt.Fprintf(writer, "Thresholds (%s): score_godclass=%.2f score_suspicious=%.2f\n\n",
		source, response.Thresholds.GodClassScore(), response.Thresholds.SuspiciousScore())

	fmt.Fprintf(writer, "%s\n\n", st.header.Render("=== God Class ==="))
	if len(response.GodClasses) == 0 {
		fmt.Fprintf(writer, "%s\n", st.muted.Render("No god class candidates found."))
	}
	for _, finding := range response.GodClasses {
		m := finding.Metrics
		fmt.Fprintf(writer, "  %s: %.2f %s\n", finding.Class, finding.Score, st.label(finding.Label))
		fmt.Fprintf(writer, "    WMC=%d ATFD=%d TCC=%.2f FanIn=%d FanOut=%d LRC=%d\n",
			m.WMC, m.ATFD, m.TCC, m.FanIn, m.FanOut, m.LRC)
	}

	fmt.Fprintf(writer, "\n%s\n\n", st.header.Render("=== Hub-Like Dependency ==="))
	if len(response.Hubs) == 0 {
		fmt.Fprintf(writer, "%s\n", st.muted.Render("No hub-like dependencies found."))
	}
	for i, hub := range response.Hubs {
		fmt.Fprintf(writer, "  %d. %s rank=%.4f degree=%d (in %d, out %d)\n",
			i+1, st.hub.Render(hub.Class), hub.Rank, hub.Degree, hub.InDegree, hub.OutDegree)
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}
	return nil
}

// FormatForPath picks JSON or YAML from a file extension, defaulting to JSON
func FormatForPath(path string) domain.OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return domain.OutputFormatYAML
	default:
		return domain.OutputFormatJSON
	}
}

// WriteThresholds writes the effective threshold map as a flat object
func WriteThresholds(thresholds domain.Thresholds, format domain.OutputFormat, writer io.Writer) error {
	values := thresholds.ToMap()
	switch format {
	case domain.OutputFormatYAML:
		return WriteYAML(writer, values)
	case domain.OutputFormatJSON, "":
		return WriteJSON(writer, values)
	default:
		return fmt.Errorf("unsupported thresholds format: %s", format)
	}
}

// WriteMetricsDump writes a metric distribution report
func WriteMetricsDump(dump *domain.MetricsDump, format domain.OutputFormat, writer io.Writer) error {
	if dump == nil {
		return domain.NewOutputError("no metrics to write", nil)
	}
	switch format {
	case domain.OutputFormatYAML:
		return WriteYAML(writer, dump)
	case domain.OutputFormatJSON, "":
		return WriteJSON(writer, dump)
	case domain.OutputFormatText:
		return writeMetricsText(dump, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeMetricsText(dump *domain.MetricsDump, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Metric Distributions ===\n\n")
	if dump.Diagram != "" {
		fmt.Fprintf(writer, "Diagram: %s\n", dump.Diagram)
	}
	fmt.Fprintf(writer, "Classes: %d\n\n", dump.Classes)
	fmt.Fprintf(writer, "  %-8s %8s %8s %8s %8s %8s\n", "metric", "min", "p50", "mean", "p90", "max")
	for _, name := range metricOrder {
		s := dump.Stats[name]
		fmt.Fprintf(writer, "  %-8s %8.2f %8.2f %8.2f %8.2f %8.2f\n", name, s.Min, s.P50, s.Mean, s.P90, s.Max)
	}
	return nil
}

var metricOrder = []string{
	analyzer.MetricWMC,
	analyzer.MetricATFD,
	analyzer.MetricFanIn,
	analyzer.MetricFanOut,
	analyzer.MetricLRC,
}
