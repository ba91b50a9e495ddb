package domain

// CheckResult represents the result of a design quality check
type CheckResult struct {
	Passed      bool             `json:"passed"`
	ExitCode    int              `json:"exit_code"`
	Violations  []CheckViolation `json:"violations"`
	Summary     CheckSummary     `json:"summary"`
	Duration    int64            `json:"duration_ms"`
	GeneratedAt string           `json:"generated_at"`
	Version     string           `json:"version"`
}

// CheckViolation represents a single threshold violation
type CheckViolation struct {
	Category  string `json:"category"`            // god-class, hub-like
	Rule      string `json:"rule"`                // no-god-class, no-suspicious, no-hubs
	Severity  string `json:"severity"`            // error, warning
	Message   string `json:"message"`             // Human-readable description
	Class     string `json:"class,omitempty"`     // Offending class name
	Actual    string `json:"actual"`              // Actual value
	Threshold string `json:"threshold,omitempty"` // Configured threshold
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	Diagram         string `json:"diagram"`
	ClassesAnalyzed int    `json:"classes_analyzed"`
	TotalViolations int    `json:"total_violations"`
	GodClasses      int    `json:"god_classes"`
	Suspicious      int    `json:"suspicious"`
	Hubs            int    `json:"hubs"`
}
