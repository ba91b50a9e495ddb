package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/service"
	"go.uber.org/zap"
)

// AIProviderFactory builds the AI threshold provider for a context document
type AIProviderFactory func(ctx context.Context, contextText string) (domain.ThresholdProvider, error)

// RunRecorder persists analysis runs
type RunRecorder interface {
	RecordRun(ctx context.Context, resp *domain.AnalysisResponse) (int64, error)
	Close() error
}

// RunRecorderFactory opens the history at path
type RunRecorderFactory func(path string) (RunRecorder, error)

// AnalyzeUseCase orchestrates parse, calibrate, detect and report
type AnalyzeUseCase struct {
	parser      domain.ModelParser
	calibration *service.CalibrationServiceImpl
	aiFactory   AIProviderFactory
	analysis    domain.AnalysisService
	formatter   domain.OutputFormatter
	openStore   RunRecorderFactory
	fileHelper  *FileHelper
	logger      *zap.Logger
}

// AnalyzeResult holds the outcome of one analysis
type AnalyzeResult struct {
	Response *domain.AnalysisResponse
	Model    *domain.DesignModel
	RunID    int64
	Duration time.Duration
}

// ResolveCalibrationMode applies the precedence AI over context over the
// configured mode. A context document alone selects context calibration.
func ResolveCalibrationMode(req domain.AnalysisRequest) domain.CalibrationMode {
	if req.Calibration == domain.CalibrationAI {
		return domain.CalibrationAI
	}
	if req.ContextPath != "" || req.ContextText != "" {
		return domain.CalibrationContext
	}
	if req.Calibration == "" {
		return domain.CalibrationNone
	}
	return req.Calibration
}

// Execute performs the complete analysis workflow
func (uc *AnalyzeUseCase) Execute(ctx context.Context, req domain.AnalysisRequest) (*AnalyzeResult, error) {
	startTime := time.Now()

	if _, err := uc.fileHelper.ResolveDiagram(req.DiagramPath); err != nil {
		return nil, err
	}
	if req.OutputFormat == "" {
		req.OutputFormat = domain.OutputFormatText
	}
	if !domain.IsValidOutputFormat(req.OutputFormat) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unsupported output format: %s", req.OutputFormat), nil)
	}

	model, warnings, err := uc.parser.ParseFile(req.DiagramPath)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		uc.logger.Warn("diagram relation skipped", zap.String("reason", w))
	}

	calibrated, err := uc.calibrate(ctx, model, req)
	if err != nil {
		return nil, err
	}

	if req.MetricsOutPath != "" {
		format := service.FormatForPath(req.MetricsOutPath)
		err := uc.fileHelper.WriteOutput(req.MetricsOutPath, func(w io.Writer) error {
			return service.WriteThresholds(calibrated.Thresholds, format, w)
		})
		if err != nil {
			return nil, err
		}
	}

	response, err := uc.analysis.Analyze(ctx, model, calibrated.Thresholds)
	if err != nil {
		return nil, err
	}
	response.Diagram = req.DiagramPath
	response.ThresholdSource = calibrated.Source
	response.Warnings = warnings
	response.DurationMs = time.Since(startTime).Milliseconds()

	if err := uc.writeReport(response, model, req); err != nil {
		return nil, err
	}

	result := &AnalyzeResult{Response: response, Model: model}

	if req.StorePath != "" {
		id, err := uc.record(ctx, req.StorePath, response)
		if err != nil {
			return nil, err
		}
		result.RunID = id
	}

	result.Duration = time.Since(startTime)
	return result, nil
}

func (uc *AnalyzeUseCase) calibrate(ctx context.Context, model *domain.DesignModel, req domain.AnalysisRequest) (*service.CalibrationResult, error) {
	contextText := req.ContextText
	if contextText == "" && req.ContextPath != "" {
		text, err := uc.fileHelper.ReadContext(req.ContextPath)
		if err != nil {
			return nil, err
		}
		contextText = text
	}

	mode := ResolveCalibrationMode(req)
	if mode == domain.CalibrationAI {
		if uc.aiFactory == nil {
			return nil, domain.NewCalibrationError("AI calibration requested but no provider is configured", nil)
		}
		provider, err := uc.aiFactory(ctx, contextText)
		if err != nil {
			return nil, domain.NewCalibrationError("cannot create AI provider", err)
		}
		uc.calibration.WithAIProvider(provider)
	}

	return uc.calibration.Calibrate(ctx, model, service.CalibrationRequest{
		Mode:        mode,
		ContextText: contextText,
		Base:        req.BaseThresholds,
	})
}

func (uc *AnalyzeUseCase) writeReport(response *domain.AnalysisResponse, model *domain.DesignModel, req domain.AnalysisRequest) error {
	if req.OutputPath != "" {
		return uc.fileHelper.WriteOutput(req.OutputPath, func(w io.Writer) error {
			return uc.formatter.Write(response, model, req.OutputFormat, w)
		})
	}
	if req.OutputWriter == nil {
		return nil
	}
	return uc.formatter.Write(response, model, req.OutputFormat, req.OutputWriter)
}

func (uc *AnalyzeUseCase) record(ctx context.Context, path string, response *domain.AnalysisResponse) (int64, error) {
	st, err := uc.openStore(path)
	if err != nil {
		return 0, domain.NewOutputError(fmt.Sprintf("cannot open history %s", path), err)
	}
	defer st.Close()

	id, err := st.RecordRun(ctx, response)
	if err != nil {
		return 0, domain.NewOutputError("cannot record run", err)
	}
	uc.logger.Info("run recorded", zap.Int64("run_id", id), zap.String("store", path))
	return id, nil
}

// AnalyzeUseCaseBuilder builds an AnalyzeUseCase
type AnalyzeUseCaseBuilder struct {
	parser      domain.ModelParser
	calibration *service.CalibrationServiceImpl
	aiFactory   AIProviderFactory
	analysis    domain.AnalysisService
	formatter   domain.OutputFormatter
	openStore   RunRecorderFactory
	fileHelper  *FileHelper
	logger      *zap.Logger
}

// NewAnalyzeUseCaseBuilder creates a new builder
func NewAnalyzeUseCaseBuilder() *AnalyzeUseCaseBuilder {
	return &AnalyzeUseCaseBuilder{}
}

// WithParser sets the diagram parser
func (b *AnalyzeUseCaseBuilder) WithParser(p domain.ModelParser) *AnalyzeUseCaseBuilder {
	b.parser = p
	return b
}

// WithCalibrationService sets the calibration service
func (b *AnalyzeUseCaseBuilder) WithCalibrationService(s *service.CalibrationServiceImpl) *AnalyzeUseCaseBuilder {
	b.calibration = s
	return b
}

// WithAIProviderFactory sets how the AI provider is created
func (b *AnalyzeUseCaseBuilder) WithAIProviderFactory(f AIProviderFactory) *AnalyzeUseCaseBuilder {
	b.aiFactory = f
	return b
}

// WithAnalysisService sets the detector service
func (b *AnalyzeUseCaseBuilder) WithAnalysisService(s domain.AnalysisService) *AnalyzeUseCaseBuilder {
	b.analysis = s
	return b
}

// WithFormatter sets the report formatter
func (b *AnalyzeUseCaseBuilder) WithFormatter(f domain.OutputFormatter) *AnalyzeUseCaseBuilder {
	b.formatter = f
	return b
}

// WithStore sets how the run history is opened
func (b *AnalyzeUseCaseBuilder) WithStore(f RunRecorderFactory) *AnalyzeUseCaseBuilder {
	b.openStore = f
	return b
}

// WithFileHelper sets the file helper
func (b *AnalyzeUseCaseBuilder) WithFileHelper(fh *FileHelper) *AnalyzeUseCaseBuilder {
	b.fileHelper = fh
	return b
}

// WithLogger sets the logger
func (b *AnalyzeUseCaseBuilder) WithLogger(logger *zap.Logger) *AnalyzeUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the AnalyzeUseCase
func (b *AnalyzeUseCaseBuilder) Build() (*AnalyzeUseCase, error) {
	if b.parser == nil {
		return nil, fmt.Errorf("parser is required")
	}
	if b.analysis == nil {
		return nil, fmt.Errorf("analysis service is required")
	}

	uc := &AnalyzeUseCase{
		parser:      b.parser,
		calibration: b.calibration,
		aiFactory:   b.aiFactory,
		analysis:    b.analysis,
		formatter:   b.formatter,
		openStore:   b.openStore,
		fileHelper:  b.fileHelper,
		logger:      b.logger,
	}

	if uc.calibration == nil {
		uc.calibration = service.NewCalibrationService(nil, nil, b.logger)
	}
	if uc.formatter == nil {
		uc.formatter = service.NewOutputFormatter()
	}
	if uc.openStore == nil {
		uc.openStore = OpenStore
	}
	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}
	if uc.logger == nil {
		uc.logger = zap.NewNop()
	}

	return uc, nil
}
