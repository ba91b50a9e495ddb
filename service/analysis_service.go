package service

import (
	"context"
	"time"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/analyzer"
	"github.com/ludo-technologies/archscan/internal/config"
	"github.com/ludo-technologies/archscan/internal/constants"
	"github.com/ludo-technologies/archscan/internal/version"
	"go.uber.org/zap"
)

// AnalysisOptions toggles and tunes the detectors
type AnalysisOptions struct {
	EnableGodClass bool
	EnableHubLike  bool
	HubLike        analyzer.HubLikeConfig
}

// AnalysisOptionsFromConfig builds options from a loaded configuration
func AnalysisOptionsFromConfig(cfg *config.Config) AnalysisOptions {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return AnalysisOptions{
		EnableGodClass: cfg.GodClass.Enabled,
		EnableHubLike:  cfg.HubLike.Enabled,
		HubLike: analyzer.HubLikeConfig{
			TopK: cfg.HubLike.TopK,
			PageRank: analyzer.PageRankConfig{
				Damping:       cfg.HubLike.Damping,
				MaxIterations: cfg.HubLike.MaxIterations,
				Tolerance:     cfg.HubLike.Tolerance,
			},
		},
	}
}

// AnalysisServiceImpl implements domain.AnalysisService. Both detectors
// read the same model and never write to it, so they run as parallel tasks.
type AnalysisServiceImpl struct {
	options  AnalysisOptions
	executor domain.ParallelExecutor
	logger   *zap.Logger
}

// NewAnalysisService creates an analysis service. A nil executor runs the
// detectors with the default limits.
func NewAnalysisService(options AnalysisOptions, executor domain.ParallelExecutor, logger *zap.Logger) *AnalysisServiceImpl {
	if executor == nil {
		executor = NewParallelExecutor()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisServiceImpl{options: options, executor: executor, logger: logger}
}

// Analyze runs the enabled detectors with the effective thresholds
func (s *AnalysisServiceImpl) Analyze(ctx context.Context, model *domain.DesignModel, thresholds domain.Thresholds) (*domain.AnalysisResponse, error) {
	if model == nil {
		return nil, domain.NewModelError("no design model to analyze", nil)
	}
	start := time.Now()

	godTask := &godClassTask{
		enabled:    s.options.EnableGodClass,
		detector:   analyzer.NewGodClassDetector(s.logger),
		model:      model,
		thresholds: thresholds,
	}
	hubConfig := s.options.HubLike
	hubTask := &hubLikeTask{
		enabled:  s.options.EnableHubLike,
		detector: analyzer.NewHubLikeDetector(&hubConfig, s.logger),
		model:    model,
	}

	if err := s.executor.Execute(ctx, []domain.ExecutableTask{godTask, hubTask}); err != nil {
		return nil, err
	}

	resp := &domain.AnalysisResponse{
		GodClasses:      nonNilFindings(godTask.result),
		Hubs:            nonNilHubs(hubTask.result),
		Thresholds:      thresholds.Clone(),
		ThresholdSource: domain.SourceBase,
		GeneratedAt:     time.Now().Format(time.RFC3339),
		DurationMs:      time.Since(start).Milliseconds(),
		Version:         version.GetVersion(),
	}
	resp.ComputeSummary(model)

	s.logger.Info("analysis complete",
		zap.Int("classes", resp.Summary.Classes),
		zap.Int("god_classes", resp.Summary.GodClasses),
		zap.Int("suspicious", resp.Summary.Suspicious),
		zap.Int("hubs", resp.Summary.Hubs),
	)
	return resp, nil
}

type godClassTask struct {
	enabled    bool
	detector   *analyzer.GodClassDetector
	model      *domain.DesignModel
	thresholds domain.Thresholds
	result     []domain.GodClassFinding
}

func (t *godClassTask) Name() string    { return constants.AnalysisGodClass }
func (t *godClassTask) IsEnabled() bool { return t.enabled }

func (t *godClassTask) Execute(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.result = t.detector.Detect(t.model, t.thresholds)
	return t.result, nil
}

type hubLikeTask struct {
	enabled  bool
	detector *analyzer.HubLikeDetector
	model    *domain.DesignModel
	result   []domain.HubCandidate
}

func (t *hubLikeTask) Name() string    { return constants.AnalysisHubLike }
func (t *hubLikeTask) IsEnabled() bool { return t.enabled }

func (t *hubLikeTask) Execute(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.result = t.detector.Detect(t.model)
	return t.result, nil
}

func nonNilFindings(f []domain.GodClassFinding) []domain.GodClassFinding {
	if f == nil {
		return []domain.GodClassFinding{}
	}
	return f
}

func nonNilHubs(h []domain.HubCandidate) []domain.HubCandidate {
	if h == nil {
		return []domain.HubCandidate{}
	}
	return h
}
