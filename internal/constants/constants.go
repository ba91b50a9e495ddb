package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "archscan"

	// ConfigFileName is the default config file name written by init
	ConfigFileName = "archscan.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "ARCHSCAN"
)

// Analysis type constants
const (
	AnalysisGodClass = "god_class"
	AnalysisHubLike  = "hub_like"
	AnalysisMetrics  = "metrics"
)

// Check categories
const (
	CategoryGodClass = "god-class"
	CategoryHubLike  = "hub-like"
)

// Check exit codes
const (
	ExitPass      = 0
	ExitViolation = 1
	ExitError     = 2
)

// Diagram file extensions accepted by the CLI
var DiagramExtensions = []string{".xmi", ".xml", ".uml"}
