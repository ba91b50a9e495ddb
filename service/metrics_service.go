package service

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/analyzer"
	"github.com/ludo-technologies/archscan/internal/config"
	"golang.org/x/sync/errgroup"
)

// MetricsServiceImpl computes per-class metric snapshots and the raw
// distribution dump
type MetricsServiceImpl struct {
	maxConcurrency int
	progress       domain.ProgressManager
}

// NewMetricsService creates a metrics service
func NewMetricsService(cfg *config.PerformanceConfig) *MetricsServiceImpl {
	workers := DefaultMaxConcurrency
	if cfg != nil && cfg.MaxGoroutines > 0 {
		workers = cfg.MaxGoroutines
	}
	return &MetricsServiceImpl{maxConcurrency: workers}
}

// NewMetricsServiceWithProgress creates a metrics service with progress reporting
func NewMetricsServiceWithProgress(cfg *config.PerformanceConfig, pm domain.ProgressManager) *MetricsServiceImpl {
	s := NewMetricsService(cfg)
	s.progress = pm
	return s
}

// Snapshots computes the metrics of every class. The model is read-only
// here, so classes are processed concurrently; results keep model order.
func (s *MetricsServiceImpl) Snapshots(ctx context.Context, model *domain.DesignModel) ([]domain.ClassMetricSnapshot, error) {
	if model == nil {
		return []domain.ClassMetricSnapshot{}, nil
	}
	classes := model.Classes()
	snapshots := make([]domain.ClassMetricSnapshot, len(classes))

	var task domain.TaskProgress = &NoOpTaskProgress{}
	if s.progress != nil {
		task = s.progress.StartTask("Computing metrics", len(classes))
	}
	defer task.Complete()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, c := range classes {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return fmt.Errorf("metric computation cancelled: %w", err)
			}
			snapshots[i] = analyzer.Snapshot(c, model)
			task.Increment(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Distributions computes the calibrated metric distributions of model
func (s *MetricsServiceImpl) Distributions(ctx context.Context, model *domain.DesignModel) (domain.MetricDistributions, error) {
	snapshots, err := s.Snapshots(ctx, model)
	if err != nil {
		return domain.MetricDistributions{}, err
	}
	return analyzer.CollectDistributions(snapshots), nil
}

// Dump builds the raw value and summary statistics report of a diagram
func (s *MetricsServiceImpl) Dump(ctx context.Context, model *domain.DesignModel, diagram string) (*domain.MetricsDump, error) {
	d, err := s.Distributions(ctx, model)
	if err != nil {
		return nil, err
	}
	return &domain.MetricsDump{
		Diagram: diagram,
		Classes: d.Len(),
		Raw:     d,
		Stats:   analyzer.DistributionStats(d),
	}, nil
}
