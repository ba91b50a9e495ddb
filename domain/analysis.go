package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatDOT  OutputFormat = "dot"
)

// ValidOutputFormats lists the formats accepted by the analyze command
var ValidOutputFormats = []OutputFormat{
	OutputFormatText,
	OutputFormatJSON,
	OutputFormatYAML,
	OutputFormatDOT,
}

// IsValidOutputFormat reports whether f is one of ValidOutputFormats
func IsValidOutputFormat(f OutputFormat) bool {
	for _, v := range ValidOutputFormats {
		if v == f {
			return true
		}
	}
	return false
}

// CalibrationMode selects how thresholds are derived before detection
type CalibrationMode string

const (
	// CalibrationNone uses the configured thresholds unchanged
	CalibrationNone CalibrationMode = "none"

	// CalibrationContext recomputes bounds from the model and scales
	// decision thresholds by the context document size
	CalibrationContext CalibrationMode = "context"

	// CalibrationAI asks a language model for the threshold map
	CalibrationAI CalibrationMode = "ai"
)

// ThresholdSource records which provider produced the effective thresholds
type ThresholdSource string

const (
	SourceBase    ThresholdSource = "base"
	SourceContext ThresholdSource = "context"
	SourceAI      ThresholdSource = "ai"
)

// AnalysisRequest represents a request for antipattern detection
type AnalysisRequest struct {
	// DiagramPath is the XMI file to analyze
	DiagramPath string

	// ContextPath is an optional plain-text document used for calibration
	ContextPath string

	// ContextText is the already-loaded context document
	ContextText string

	// Calibration selects the threshold provider
	Calibration CalibrationMode

	// BaseThresholds are merged under any calibrated values
	BaseThresholds Thresholds

	// Detector switches
	EnableGodClass bool
	EnableHubLike  bool

	// TopK bounds the number of reported hubs
	TopK int

	// Output configuration
	OutputFormat   OutputFormat
	OutputWriter   io.Writer
	OutputPath     string
	MetricsOutPath string

	// ConfigPath is the configuration file in use, if any
	ConfigPath string

	// StorePath enables run history when non-empty
	StorePath string
}

// AnalysisSummary aggregates counts for a run
type AnalysisSummary struct {
	Classes    int `json:"classes" yaml:"classes"`
	Edges      int `json:"edges" yaml:"edges"`
	GodClasses int `json:"god_classes" yaml:"god_classes"`
	Suspicious int `json:"suspicious" yaml:"suspicious"`
	Hubs       int `json:"hubs" yaml:"hubs"`
}

// AnalysisResponse is the merged result of both detectors
type AnalysisResponse struct {
	Diagram         string            `json:"diagram" yaml:"diagram"`
	GodClasses      []GodClassFinding `json:"god_class" yaml:"god_class"`
	Hubs            []HubCandidate    `json:"hub_like_details" yaml:"hub_like_details"`
	Thresholds      Thresholds        `json:"thresholds" yaml:"thresholds"`
	ThresholdSource ThresholdSource   `json:"threshold_source" yaml:"threshold_source"`
	Summary         AnalysisSummary   `json:"summary" yaml:"summary"`
	Warnings        []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	GeneratedAt     string            `json:"generated_at" yaml:"generated_at"`
	DurationMs      int64             `json:"duration_ms" yaml:"duration_ms"`
	Version         string            `json:"version" yaml:"version"`
}

// ComputeSummary fills Summary from the findings and the model
func (r *AnalysisResponse) ComputeSummary(model *DesignModel) {
	r.Summary = AnalysisSummary{Hubs: len(r.Hubs)}
	if model != nil {
		r.Summary.Classes = model.Len()
		r.Summary.Edges = model.EdgeCount()
	}
	for _, f := range r.GodClasses {
		switch f.Label {
		case LabelGodClass:
			r.Summary.GodClasses++
		case LabelSuspicious:
			r.Summary.Suspicious++
		}
	}
}

// ModelParser turns a diagram source into a design model
type ModelParser interface {
	ParseFile(path string) (*DesignModel, []string, error)
}

// AnalysisService runs the detectors over a parsed model
type AnalysisService interface {
	Analyze(ctx context.Context, model *DesignModel, thresholds Thresholds) (*AnalysisResponse, error)
}

// OutputFormatter writes reports in the requested format
type OutputFormatter interface {
	Write(response *AnalysisResponse, model *DesignModel, format OutputFormat, writer io.Writer) error
}
