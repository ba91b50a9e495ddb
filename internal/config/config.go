package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/spf13/viper"
)

// Default hub-like detection settings
const (
	// DefaultTopK is the number of hub candidates reported
	DefaultTopK = 10

	// DefaultDamping is the PageRank damping factor
	DefaultDamping = 0.85

	// DefaultMaxIterations bounds the PageRank power iteration
	DefaultMaxIterations = 100

	// DefaultTolerance is the per-node PageRank convergence tolerance
	DefaultTolerance = 1e-6
)

// Default calibration settings
const (
	DefaultWordsPerPage = 300
	DefaultPercentile   = 0.95
)

// Default AI settings
const (
	DefaultAIProvider     = "gemini"
	DefaultAIModel        = "gemini-2.5-flash"
	DefaultAIAPIKeyEnv    = "GEMINI_API_KEY"
	DefaultExcerptChars   = 6000
	DefaultAITimeoutSecs  = 60
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "console"
	DefaultStorePath      = ".archscan/history.db"
	DefaultMaxGoroutines  = 4
	DefaultTimeoutSeconds = 300
)

// EnvConfigPath names the environment variable pointing at a config file
const EnvConfigPath = "ARCHSCAN_CONFIG"

// Config represents the main configuration structure
type Config struct {
	// Thresholds is the base threshold map merged under calibrated values
	Thresholds domain.Thresholds `json:"thresholds" mapstructure:"thresholds" yaml:"thresholds"`

	// GodClass holds god-class detection configuration
	GodClass GodClassConfig `json:"god_class" mapstructure:"god_class" yaml:"god_class"`

	// HubLike holds hub-like dependency detection configuration
	HubLike HubLikeConfig `json:"hub_like" mapstructure:"hub_like" yaml:"hub_like"`

	// Calibration selects and tunes threshold calibration
	Calibration CalibrationConfig `json:"calibration" mapstructure:"calibration" yaml:"calibration"`

	// AI configures the AI threshold suggestion strategy
	AI AIConfig `json:"ai" mapstructure:"ai" yaml:"ai"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Logging holds logger configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`

	// Performance holds concurrency limits
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Store configures the run history database
	Store StoreConfig `json:"store" mapstructure:"store" yaml:"store"`
}

// GodClassConfig holds configuration for god-class detection
type GodClassConfig struct {
	// Enabled controls whether god-class detection is performed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
}

// HubLikeConfig holds configuration for hub-like dependency detection
type HubLikeConfig struct {
	// Enabled controls whether hub detection is performed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// TopK bounds the number of reported hubs
	TopK int `json:"top_k" mapstructure:"top_k" yaml:"top_k"`

	// PageRank parameters
	Damping       float64 `json:"damping" mapstructure:"damping" yaml:"damping"`
	MaxIterations int     `json:"max_iterations" mapstructure:"max_iterations" yaml:"max_iterations"`
	Tolerance     float64 `json:"tolerance" mapstructure:"tolerance" yaml:"tolerance"`
}

// CalibrationConfig holds configuration for threshold calibration
type CalibrationConfig struct {
	// Mode is one of none, context, ai
	Mode string `json:"mode" mapstructure:"mode" yaml:"mode"`

	// WordsPerPage converts a context word count to pages
	WordsPerPage int `json:"words_per_page" mapstructure:"words_per_page" yaml:"words_per_page"`

	// Percentile is the quantile used for upper normalization bounds
	Percentile float64 `json:"percentile" mapstructure:"percentile" yaml:"percentile"`
}

// AIConfig holds configuration for AI threshold suggestion
type AIConfig struct {
	Provider string `json:"provider" mapstructure:"provider" yaml:"provider"`
	Model    string `json:"model" mapstructure:"model" yaml:"model"`

	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv string `json:"api_key_env" mapstructure:"api_key_env" yaml:"api_key_env"`

	// ExcerptChars bounds how much context text is sent
	ExcerptChars int `json:"excerpt_chars" mapstructure:"excerpt_chars" yaml:"excerpt_chars"`

	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, dot
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// MetricsOut is the file receiving the effective threshold map (empty = none)
	MetricsOut string `json:"metrics_out" mapstructure:"metrics_out" yaml:"metrics_out"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level" mapstructure:"level" yaml:"level"`

	// Format is console or json
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// PerformanceConfig holds concurrency configuration
type PerformanceConfig struct {
	// MaxGoroutines limits concurrently running tasks (0 = default)
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds a whole analysis (0 = default)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// StoreConfig holds configuration for the run history
type StoreConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Path    string `json:"path" mapstructure:"path" yaml:"path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Thresholds: domain.Thresholds{},
		GodClass: GodClassConfig{
			Enabled: true,
		},
		HubLike: HubLikeConfig{
			Enabled:       true,
			TopK:          DefaultTopK,
			Damping:       DefaultDamping,
			MaxIterations: DefaultMaxIterations,
			Tolerance:     DefaultTolerance,
		},
		Calibration: CalibrationConfig{
			Mode:         string(domain.CalibrationNone),
			WordsPerPage: DefaultWordsPerPage,
			Percentile:   DefaultPercentile,
		},
		AI: AIConfig{
			Provider:       DefaultAIProvider,
			Model:          DefaultAIModel,
			APIKeyEnv:      DefaultAIAPIKeyEnv,
			ExcerptChars:   DefaultExcerptChars,
			TimeoutSeconds: DefaultAITimeoutSecs,
		},
		Output: OutputConfig{
			Format: string(domain.OutputFormatText),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  DefaultMaxGoroutines,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Store: StoreConfig{
			Enabled: false,
			Path:    DefaultStorePath,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// Without an explicit path the file is discovered from the diagram's
// directory upward.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = discoverConfigFile(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// DiscoverConfigFile returns the config file that LoadConfigWithTarget
// would use for targetPath, or an empty string
func DiscoverConfigFile(targetPath string) string {
	return discoverConfigFile(targetPath)
}

func discoverConfigFile(targetPath string) string {
	return findDefaultConfig(targetPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// A fresh viper instance per load keeps concurrent loads independent
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// configCandidates are the file names looked up in each directory
var configCandidates = []string{
	"archscan.yaml",
	"archscan.yml",
	".archscan.yaml",
	".archscan.yml",
	"archscan.json",
	".archscan.json",
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is the diagram being analyzed.
func findDefaultConfig(targetPath string) string {
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			// Walk up to the filesystem root, handling Windows volume roots
			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, configCandidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", configCandidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, "archscan"), configCandidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", "archscan")
		if config := searchConfigInDirectory(configDir, configCandidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(EnvConfigPath); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}

	if c.HubLike.TopK < 1 {
		return fmt.Errorf("hub_like.top_k must be >= 1, got %d", c.HubLike.TopK)
	}
	if c.HubLike.Damping <= 0 || c.HubLike.Damping >= 1 {
		return fmt.Errorf("hub_like.damping must be in (0, 1), got %g", c.HubLike.Damping)
	}
	if c.HubLike.MaxIterations < 1 {
		return fmt.Errorf("hub_like.max_iterations must be >= 1, got %d", c.HubLike.MaxIterations)
	}
	if c.HubLike.Tolerance <= 0 {
		return fmt.Errorf("hub_like.tolerance must be > 0, got %g", c.HubLike.Tolerance)
	}

	if !isValidCalibrationMode(c.Calibration.Mode) {
		return fmt.Errorf("invalid calibration.mode '%s', must be one of: none, context, ai", c.Calibration.Mode)
	}
	if c.Calibration.WordsPerPage < 1 {
		return fmt.Errorf("calibration.words_per_page must be >= 1, got %d", c.Calibration.WordsPerPage)
	}
	if c.Calibration.Percentile <= 0 || c.Calibration.Percentile > 1 {
		return fmt.Errorf("calibration.percentile must be in (0, 1], got %g", c.Calibration.Percentile)
	}

	if c.AI.Provider != DefaultAIProvider {
		return fmt.Errorf("invalid ai.provider '%s', must be: %s", c.AI.Provider, DefaultAIProvider)
	}
	if c.AI.ExcerptChars < 0 {
		return fmt.Errorf("ai.excerpt_chars must be >= 0, got %d", c.AI.ExcerptChars)
	}
	if c.AI.TimeoutSeconds < 0 {
		return fmt.Errorf("ai.timeout_seconds must be >= 0, got %d", c.AI.TimeoutSeconds)
	}

	if !domain.IsValidOutputFormat(domain.OutputFormat(c.Output.Format)) {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, dot", c.Output.Format)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid logging.level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format '%s', must be one of: console, json", c.Logging.Format)
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("store.path cannot be empty when store.enabled is true")
	}

	return nil
}

func isValidCalibrationMode(mode string) bool {
	switch domain.CalibrationMode(mode) {
	case domain.CalibrationNone, domain.CalibrationContext, domain.CalibrationAI:
		return true
	}
	return false
}

// CalibrationMode returns the configured mode as a domain value
func (c *CalibrationConfig) CalibrationMode() domain.CalibrationMode {
	return domain.CalibrationMode(c.Mode)
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// A fresh viper instance per save keeps concurrent saves independent
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("thresholds", config.Thresholds.ToMap())
	v.Set("god_class", config.GodClass)
	v.Set("hub_like", config.HubLike)
	v.Set("calibration", config.Calibration)
	v.Set("ai", config.AI)
	v.Set("output", config.Output)
	v.Set("logging", config.Logging)
	v.Set("performance", config.Performance)
	v.Set("store", config.Store)

	return v.WriteConfig()
}

// LoadThresholdsFile reads a flat JSON threshold map such as
// {"wmc_max": 20, "score_godclass": 0.7}. Unknown keys are an error.
func LoadThresholdsFile(path string) (domain.Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Thresholds{}, fmt.Errorf("failed to read thresholds file %s: %w", path, err)
	}

	var values map[string]float64
	if err := json.Unmarshal(data, &values); err != nil {
		return domain.Thresholds{}, fmt.Errorf("failed to parse thresholds file %s: %w", path, err)
	}

	thresholds, unknown := domain.ThresholdsFromMap(values)
	if len(unknown) > 0 {
		return domain.Thresholds{}, fmt.Errorf("unknown threshold keys in %s: %s", path, strings.Join(unknown, ", "))
	}
	if err := thresholds.Validate(); err != nil {
		return domain.Thresholds{}, fmt.Errorf("invalid thresholds in %s: %w", path, err)
	}
	return thresholds, nil
}
