package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/service"
)

// MetricsUseCase dumps the raw metric distributions of a diagram
type MetricsUseCase struct {
	parser     domain.ModelParser
	metrics    *service.MetricsServiceImpl
	fileHelper *FileHelper
}

// NewMetricsUseCase creates a metrics use case
func NewMetricsUseCase(parser domain.ModelParser, metrics *service.MetricsServiceImpl) *MetricsUseCase {
	if metrics == nil {
		metrics = service.NewMetricsService(nil)
	}
	return &MetricsUseCase{
		parser:     parser,
		metrics:    metrics,
		fileHelper: NewFileHelper(),
	}
}

// Execute parses diagram and writes its metric dump in format. When
// outputPath is set the dump goes there instead of writer.
func (uc *MetricsUseCase) Execute(ctx context.Context, diagram string, format domain.OutputFormat, writer io.Writer, outputPath string) (*domain.MetricsDump, error) {
	if uc.parser == nil {
		return nil, fmt.Errorf("parser is required")
	}
	if _, err := uc.fileHelper.ResolveDiagram(diagram); err != nil {
		return nil, err
	}
	if format == "" {
		format = domain.OutputFormatJSON
	}

	model, _, err := uc.parser.ParseFile(diagram)
	if err != nil {
		return nil, err
	}

	dump, err := uc.metrics.Dump(ctx, model, diagram)
	if err != nil {
		return nil, err
	}

	if outputPath != "" {
		err = uc.fileHelper.WriteOutput(outputPath, func(w io.Writer) error {
			return service.WriteMetricsDump(dump, format, w)
		})
	} else if writer != nil {
		err = service.WriteMetricsDump(dump, format, writer)
	}
	if err != nil {
		return nil, err
	}
	return dump, nil
}
