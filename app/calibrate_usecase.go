package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/service"
)

// CalibrateRequest asks for the effective threshold map of a diagram
// without running the detectors
type CalibrateRequest struct {
	DiagramPath    string
	ContextPath    string
	Mode           domain.CalibrationMode
	BaseThresholds domain.Thresholds

	// Output is written as JSON unless Format says otherwise
	Format       domain.OutputFormat
	OutputWriter io.Writer
	OutputPath   string
}

// CalibrateUseCase derives thresholds for a diagram and writes them
type CalibrateUseCase struct {
	parser      domain.ModelParser
	calibration *service.CalibrationServiceImpl
	aiFactory   AIProviderFactory
	fileHelper  *FileHelper
}

// NewCalibrateUseCase creates a calibrate use case
func NewCalibrateUseCase(parser domain.ModelParser, calibration *service.CalibrationServiceImpl, aiFactory AIProviderFactory) *CalibrateUseCase {
	if calibration == nil {
		calibration = service.NewCalibrationService(nil, nil, nil)
	}
	return &CalibrateUseCase{
		parser:      parser,
		calibration: calibration,
		aiFactory:   aiFactory,
		fileHelper:  NewFileHelper(),
	}
}

// Execute parses the diagram, calibrates and writes the threshold map.
// Without a mode, context calibration is used so bounds are recomputed
// from the model even when no context document is given.
func (uc *CalibrateUseCase) Execute(ctx context.Context, req CalibrateRequest) (*service.CalibrationResult, error) {
	if uc.parser == nil {
		return nil, fmt.Errorf("parser is required")
	}
	if _, err := uc.fileHelper.ResolveDiagram(req.DiagramPath); err != nil {
		return nil, err
	}

	format := req.Format
	if format == "" {
		format = domain.OutputFormatJSON
		if req.OutputPath != "" {
			format = service.FormatForPath(req.OutputPath)
		}
	}
	if format != domain.OutputFormatJSON && format != domain.OutputFormatYAML {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("thresholds can be written as json or yaml, not %s", format), nil)
	}

	model, _, err := uc.parser.ParseFile(req.DiagramPath)
	if err != nil {
		return nil, err
	}

	text, err := uc.fileHelper.ReadContext(req.ContextPath)
	if err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" || mode == domain.CalibrationNone {
		mode = domain.CalibrationContext
	}
	if mode == domain.CalibrationAI {
		if uc.aiFactory == nil {
			return nil, domain.NewCalibrationError("AI calibration requested but no provider is configured", nil)
		}
		provider, err := uc.aiFactory(ctx, text)
		if err != nil {
			return nil, domain.NewCalibrationError("cannot create AI provider", err)
		}
		uc.calibration.WithAIProvider(provider)
	}

	result, err := uc.calibration.Calibrate(ctx, model, service.CalibrationRequest{
		Mode:        mode,
		ContextText: text,
		Base:        req.BaseThresholds,
	})
	if err != nil {
		return nil, err
	}

	write := func(w io.Writer) error {
		return service.WriteThresholds(result.Thresholds, format, w)
	}
	if req.OutputPath != "" {
		if err := uc.fileHelper.WriteOutput(req.OutputPath, write); err != nil {
			return nil, err
		}
	} else if req.OutputWriter != nil {
		if err := write(req.OutputWriter); err != nil {
			return nil, err
		}
	}
	return result, nil
}
