package service

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/analyzer"
	"github.com/ludo-technologies/archscan/internal/config"
	"go.uber.org/zap"
)

// CalibrationRequest describes how the effective thresholds are derived
type CalibrationRequest struct {
	Mode        domain.CalibrationMode
	ContextText string
	Base        domain.Thresholds
}

// CalibrationResult is the effective threshold map and where it came from
type CalibrationResult struct {
	Thresholds domain.Thresholds
	Source     domain.ThresholdSource
}

// CalibrationServiceImpl resolves thresholds with the precedence
// AI, then context calibration, then the base map
type CalibrationServiceImpl struct {
	calibrator *analyzer.Calibrator
	metrics    *MetricsServiceImpl
	ai         domain.ThresholdProvider
	logger     *zap.Logger
}

// NewCalibrationService creates a calibration service
func NewCalibrationService(cfg *config.CalibrationConfig, metrics *MetricsServiceImpl, logger *zap.Logger) *CalibrationServiceImpl {
	calCfg := analyzer.DefaultCalibratorConfig()
	if cfg != nil {
		calCfg.WordsPerPage = cfg.WordsPerPage
		calCfg.Percentile = cfg.Percentile
	}
	if metrics == nil {
		metrics = NewMetricsService(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalibrationServiceImpl{
		calibrator: analyzer.NewCalibrator(calCfg),
		metrics:    metrics,
		logger:     logger,
	}
}

// WithAIProvider sets the provider used in AI mode
func (s *CalibrationServiceImpl) WithAIProvider(p domain.ThresholdProvider) *CalibrationServiceImpl {
	s.ai = p
	return s
}

// Calibrate returns the effective thresholds for model. The base map is
// never modified.
func (s *CalibrationServiceImpl) Calibrate(ctx context.Context, model *domain.DesignModel, req CalibrationRequest) (*CalibrationResult, error) {
	if err := req.Base.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid base thresholds", err)
	}

	var (
		provider domain.ThresholdProvider
		source   domain.ThresholdSource
	)
	switch req.Mode {
	case domain.CalibrationAI:
		if s.ai == nil {
			return nil, domain.NewCalibrationError("AI calibration requested but no provider is configured", nil)
		}
		provider, source = s.ai, domain.SourceAI
	case domain.CalibrationContext:
		d, err := s.metrics.Distributions(ctx, model)
		if err != nil {
			return nil, err
		}
		provider = analyzer.NewContextProvider(s.calibrator, req.ContextText).WithDistributions(d)
		source = domain.SourceContext
	case domain.CalibrationNone, "":
		return &CalibrationResult{Thresholds: req.Base.Clone(), Source: domain.SourceBase}, nil
	default:
		return nil, domain.NewConfigError(fmt.Sprintf("unknown calibration mode %q", req.Mode), nil)
	}

	thresholds, err := provider.ProvideThresholds(ctx, model, req.Base)
	if err != nil {
		return nil, err
	}
	if err := thresholds.Validate(); err != nil {
		return nil, domain.NewCalibrationError(fmt.Sprintf("%s provider produced inconsistent thresholds", provider.Name()), err)
	}

	s.logger.Info("thresholds calibrated",
		zap.String("source", string(source)),
		zap.Float64("score_godclass", thresholds.GodClassScore()),
		zap.Float64("score_suspicious", thresholds.SuspiciousScore()),
	)
	return &CalibrationResult{Thresholds: thresholds, Source: source}, nil
}
