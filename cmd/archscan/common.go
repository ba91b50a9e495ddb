package main

import (
	"context"
	"time"

	"github.com/ludo-technologies/archscan/app"
	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/config"
	"github.com/ludo-technologies/archscan/internal/constants"
	"github.com/ludo-technologies/archscan/internal/logging"
	"github.com/ludo-technologies/archscan/internal/parser"
	"github.com/ludo-technologies/archscan/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// analysisFlags are the options shared by analyze and check
type analysisFlags struct {
	configPath     string
	contextPath    string
	thresholdsPath string
	aiCalibrate    bool
	selectAnalyses []string
	topK           int
	storePath      string
	noProgress     bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "",
		"Path to config file (default: discovered next to the diagram)")
	cmd.Flags().StringVar(&f.contextPath, "context", "",
		"Plain-text context document used to calibrate thresholds")
	cmd.Flags().StringVar(&f.thresholdsPath, "thresholds", "",
		"JSON threshold map merged over the configured thresholds")
	cmd.Flags().BoolVar(&f.aiCalibrate, "ai-calibrate", false,
		"Ask the configured AI model for thresholds (requires a plain-text --context; PDF documents are not read)")
	cmd.Flags().StringSliceVarP(&f.selectAnalyses, "select", "s",
		[]string{constants.AnalysisGodClass, constants.AnalysisHubLike},
		"Detectors to run (comma-separated): god_class,hub_like")
	cmd.Flags().IntVar(&f.topK, "top-k", 0,
		"Maximum number of hub-like classes to report (default from config)")
	cmd.Flags().StringVar(&f.storePath, "store", "",
		"Record the run in this SQLite history database")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false,
		"Disable progress bars")
}

// buildRequest loads configuration for diagram and overlays the flags
func (f *analysisFlags) buildRequest(cmd *cobra.Command, diagram string, override *domain.AnalysisRequest) (*config.Config, *domain.AnalysisRequest, error) {
	loader := service.NewConfigurationLoader()

	cfg, used, err := loader.LoadConfig(f.configPath, diagram)
	if err != nil {
		return nil, nil, err
	}

	if override == nil {
		override = &domain.AnalysisRequest{}
	}
	override.DiagramPath = diagram
	override.ContextPath = f.contextPath
	override.ConfigPath = used
	override.StorePath = f.storePath
	override.TopK = f.topK
	if f.aiCalibrate {
		override.Calibration = domain.CalibrationAI
	}
	if f.thresholdsPath != "" {
		th, err := config.LoadThresholdsFile(f.thresholdsPath)
		if err != nil {
			return nil, nil, domain.NewConfigError("failed to load thresholds", err)
		}
		override.BaseThresholds = th
	}

	req := loader.MergeConfig(loader.ToAnalysisRequest(cfg), override)
	if req.OutputFormat == "" {
		req.OutputFormat = domain.OutputFormatText
	}
	if cmd.Flags().Changed("select") {
		req.EnableGodClass = contains(f.selectAnalyses, constants.AnalysisGodClass)
		req.EnableHubLike = contains(f.selectAnalyses, constants.AnalysisHubLike)
	}

	if err := loader.ValidateRequest(req); err != nil {
		return nil, nil, err
	}

	// The detectors are configured from cfg, so keep it in step with the request
	cfg.GodClass.Enabled = req.EnableGodClass
	cfg.HubLike.Enabled = req.EnableHubLike
	cfg.HubLike.TopK = req.TopK

	return cfg, req, nil
}

// newAnalyzeUseCase wires the parser, services and history for cfg
func newAnalyzeUseCase(cfg *config.Config, logger *zap.Logger, pm domain.ProgressManager) (*app.AnalyzeUseCase, error) {
	metrics := service.NewMetricsServiceWithProgress(&cfg.Performance, pm)
	executor := service.NewParallelExecutorWithProgress(&cfg.Performance, pm).WithLogger(logger)

	return app.NewAnalyzeUseCaseBuilder().
		WithParser(parser.NewXMIParser(logger)).
		WithCalibrationService(service.NewCalibrationService(&cfg.Calibration, metrics, logger)).
		WithAIProviderFactory(app.NewGeminiProviderFactory(cfg.AI, logger)).
		WithAnalysisService(service.NewAnalysisService(service.AnalysisOptionsFromConfig(cfg), executor, logger)).
		WithFormatter(service.NewOutputFormatter()).
		WithStore(app.OpenStore).
		WithLogger(logger).
		Build()
}

// newLogger builds the logger from the persistent flags, falling back to
// the configuration
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, format := logLevel, logFormat
	if cfg != nil {
		if level == "" {
			level = cfg.Logging.Level
		}
		if format == "" {
			format = cfg.Logging.Format
		}
	}
	return logging.New(level, format)
}

// analysisContext bounds a run by the configured timeout
func analysisContext(cmd *cobra.Command, cfg *config.Config) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := service.DefaultTimeout
	if cfg != nil && cfg.Performance.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Performance.TimeoutSeconds) * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
