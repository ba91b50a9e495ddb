package service

import (
	"fmt"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/config"
)

// ConfigurationLoaderImpl turns configuration files into analysis requests
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads the configuration at path. An empty path discovers a
// file starting from the diagram's directory; none found means defaults.
// The returned string is the file actually used.
func (c *ConfigurationLoaderImpl) LoadConfig(path, diagramPath string) (*config.Config, string, error) {
	used := path
	if used == "" {
		used = config.DiscoverConfigFile(diagramPath)
	}
	cfg, err := config.LoadConfig(used)
	if err != nil {
		return nil, "", domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, used, nil
}

// ToAnalysisRequest converts a configuration into a request without a diagram
func (c *ConfigurationLoaderImpl) ToAnalysisRequest(cfg *config.Config) *domain.AnalysisRequest {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	req := &domain.AnalysisRequest{
		Calibration:    cfg.Calibration.CalibrationMode(),
		BaseThresholds: cfg.Thresholds.Clone(),
		EnableGodClass: cfg.GodClass.Enabled,
		EnableHubLike:  cfg.HubLike.Enabled,
		TopK:           cfg.HubLike.TopK,
		OutputFormat:   domain.OutputFormat(cfg.Output.Format),
		MetricsOutPath: cfg.Output.MetricsOut,
	}
	if cfg.Store.Enabled {
		req.StorePath = cfg.Store.Path
	}
	return req
}

// MergeConfig overlays the non-zero fields of override (command line
// values) on base. Detector switches are only ever turned off by flags.
func (c *ConfigurationLoaderImpl) MergeConfig(base, override *domain.AnalysisRequest) *domain.AnalysisRequest {
	merged := *base
	merged.BaseThresholds = base.BaseThresholds.Merge(override.BaseThresholds)

	if override.DiagramPath != "" {
		merged.DiagramPath = override.DiagramPath
	}
	if override.ContextPath != "" {
		merged.ContextPath = override.ContextPath
	}
	if override.ContextText != "" {
		merged.ContextText = override.ContextText
	}
	if override.Calibration != "" {
		merged.Calibration = override.Calibration
	}
	if override.TopK > 0 {
		merged.TopK = override.TopK
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.MetricsOutPath != "" {
		merged.MetricsOutPath = override.MetricsOutPath
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	if override.StorePath != "" {
		merged.StorePath = override.StorePath
	}
	return &merged
}

// ValidateRequest checks a merged request before it runs
func (c *ConfigurationLoaderImpl) ValidateRequest(req *domain.AnalysisRequest) error {
	if req.DiagramPath == "" {
		return domain.NewInvalidInputError("a diagram path is required", nil)
	}
	if !domain.IsValidOutputFormat(req.OutputFormat) {
		return domain.NewInvalidInputError(
			fmt.Sprintf("invalid output format: %s (must be one of: text, json, yaml, dot)", req.OutputFormat), nil)
	}
	switch req.Calibration {
	case domain.CalibrationNone, domain.CalibrationContext, domain.CalibrationAI:
	default:
		return domain.NewInvalidInputError(fmt.Sprintf("invalid calibration mode: %s", req.Calibration), nil)
	}
	if req.Calibration == domain.CalibrationAI && req.ContextPath == "" && req.ContextText == "" {
		return domain.NewInvalidInputError("AI calibration needs a context document (--context)", nil)
	}
	if req.TopK < 1 {
		return domain.NewInvalidInputError(fmt.Sprintf("top_k must be >= 1, got %d", req.TopK), nil)
	}
	if !req.EnableGodClass && !req.EnableHubLike {
		return domain.NewInvalidInputError("both detectors are disabled", nil)
	}
	if err := req.BaseThresholds.Validate(); err != nil {
		return domain.NewConfigError("invalid thresholds", err)
	}
	return nil
}
