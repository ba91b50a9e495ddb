package domain

// GodClassLabel classifies a scored class
type GodClassLabel string

const (
	LabelGodClass   GodClassLabel = "god-class"
	LabelSuspicious GodClassLabel = "suspicious"
)

// ClassMetrics are the raw structural and architectural metrics of a class
type ClassMetrics struct {
	// Weighted Methods per Class (number of operations)
	WMC int `json:"WMC" yaml:"WMC"`

	// Access To Foreign Data (number of outgoing dependencies)
	ATFD int `json:"ATFD" yaml:"ATFD"`

	// Tight Class Cohesion in [0,1]
	TCC float64 `json:"TCC" yaml:"TCC"`

	FanIn  int `json:"FanIn" yaml:"FanIn"`
	FanOut int `json:"FanOut" yaml:"FanOut"`

	// Layer Responsibility Count
	LRC int `json:"LRC" yaml:"LRC"`
}

// ClassMetricSnapshot pairs a class with its computed metrics
type ClassMetricSnapshot struct {
	ID      string       `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Package string       `json:"package,omitempty" yaml:"package,omitempty"`
	Layer   string       `json:"layer" yaml:"layer"`
	Metrics ClassMetrics `json:"metrics" yaml:"metrics"`
}

// GodClassFinding is a class whose composite score reached a threshold
type GodClassFinding struct {
	Class   string        `json:"class" yaml:"class"`
	Score   float64       `json:"score" yaml:"score"`
	Label   GodClassLabel `json:"label" yaml:"label"`
	Metrics ClassMetrics  `json:"metrics" yaml:"metrics"`
}

// IsGodClass reports whether the finding carries the god-class label
func (f GodClassFinding) IsGodClass() bool {
	return f.Label == LabelGodClass
}

// HubCandidate is a class flagged as a hub-like dependency
type HubCandidate struct {
	Class     string  `json:"class" yaml:"class"`
	Rank      float64 `json:"rank" yaml:"rank"`
	Degree    int     `json:"degree" yaml:"degree"`
	InDegree  int     `json:"in_degree" yaml:"in_degree"`
	OutDegree int     `json:"out_degree" yaml:"out_degree"`
}

// HubNames returns the class names of the candidates in order
func HubNames(hubs []HubCandidate) []string {
	names := make([]string, 0, len(hubs))
	for _, h := range hubs {
		names = append(names, h.Class)
	}
	return names
}

// MetricStats summarises one metric distribution
type MetricStats struct {
	Min  float64 `json:"min" yaml:"min"`
	P50  float64 `json:"p50" yaml:"p50"`
	Mean float64 `json:"mean" yaml:"mean"`
	P90  float64 `json:"p90" yaml:"p90"`
	Max  float64 `json:"max" yaml:"max"`
}

// MetricDistributions holds the per-class values of each calibrated metric
type MetricDistributions struct {
	WMC    []float64 `json:"WMC" yaml:"WMC"`
	ATFD   []float64 `json:"ATFD" yaml:"ATFD"`
	FanIn  []float64 `json:"FanIn" yaml:"FanIn"`
	FanOut []float64 `json:"FanOut" yaml:"FanOut"`
	LRC    []float64 `json:"LRC" yaml:"LRC"`
}

// Len returns the number of classes the distributions were built from
func (d MetricDistributions) Len() int {
	return len(d.WMC)
}

// MetricsDump is the raw distribution report of a diagram
type MetricsDump struct {
	Diagram string                 `json:"diagram,omitempty" yaml:"diagram,omitempty"`
	Classes int                    `json:"classes" yaml:"classes"`
	Raw     MetricDistributions    `json:"raw" yaml:"raw"`
	Stats   map[string]MetricStats `json:"stats" yaml:"stats"`
}
