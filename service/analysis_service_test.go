package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/analyzer"
	"github.com/ludo-technologies/archscan/internal/config"
	"github.com/ludo-technologies/archscan/internal/testutil"
)

// bankingModel has one heavy service class used by everybody and six
// screens depending on a shared session hub
func bankingModel(t *testing.T) *domain.DesignModel {
	t.Helper()
	b := testutil.NewModelBuilder(t).
		Class("Manager", "bank.service").
		Class("AccountDao", "bank.dao").
		Class("Session", "bank.util")
	b.Operations("Manager", "open", "close", "transfer", "audit", "report", "notify", "lock", "unlock")
	b.Attributes("Manager", "open", "balance")
	var screens []string
	for _, name := range []string{"S1", "S2", "S3", "S4", "S5", "S6"} {
		b.Class(name, "bank.ui")
		screens = append(screens, name)
	}
	b.Star("Session", screens...)
	b.Edge("Manager", "AccountDao").Edge("Manager", "Session").Edge("S1", "Manager")
	return b.Build()
}

func strictThresholds() domain.Thresholds {
	return domain.Thresholds{
		WMCMin: domain.Float(0), WMCMax: domain.Float(8),
		ATFDMin: domain.Float(0), ATFDMax: domain.Float(2),
		FanInMax: domain.Float(1), FanOutMax: domain.Float(2), LRCMax: domain.Float(2),
	}
}

func TestAnalysisService_Analyze(t *testing.T) {
	model := bankingModel(t)
	svc := NewAnalysisService(AnalysisOptionsFromConfig(config.DefaultConfig()), nil, nil)

	resp, err := svc.Analyze(context.Background(), model, strictThresholds())
	testutil.AssertNoError(t, err)

	if len(resp.GodClasses) == 0 || resp.GodClasses[0].Class != "Manager" {
		t.Fatalf("Expected Manager to be flagged, got %+v", resp.GodClasses)
	}
	if len(resp.Hubs) == 0 || resp.Hubs[0].Class != "Session" {
		t.Fatalf("Expected Session to be the top hub, got %+v", resp.Hubs)
	}
	if resp.Summary.Classes != model.Len() || resp.Summary.Edges != model.EdgeCount() {
		t.Errorf("Expected summary to count %d classes and %d edges, got %+v",
			model.Len(), model.EdgeCount(), resp.Summary)
	}
	if resp.Summary.Hubs != len(resp.Hubs) {
		t.Errorf("Expected summary hubs %d, got %d", len(resp.Hubs), resp.Summary.Hubs)
	}
	if resp.ThresholdSource != domain.SourceBase {
		t.Errorf("Expected source base, got %s", resp.ThresholdSource)
	}
}

func TestAnalysisService_DisabledDetectors(t *testing.T) {
	model := bankingModel(t)
	svc := NewAnalysisService(AnalysisOptions{EnableHubLike: true}, nil, nil)

	resp, err := svc.Analyze(context.Background(), model, strictThresholds())
	testutil.AssertNoError(t, err)

	if resp.GodClasses == nil || len(resp.GodClasses) != 0 {
		t.Errorf("Expected an empty non-nil god class list, got %v", resp.GodClasses)
	}
	if len(resp.Hubs) == 0 {
		t.Error("Expected hub detection to still run")
	}
}

func TestAnalysisService_Deterministic(t *testing.T) {
	model := bankingModel(t)
	svc := NewAnalysisService(AnalysisOptionsFromConfig(nil), nil, nil)

	first, err := svc.Analyze(context.Background(), model, strictThresholds())
	testutil.AssertNoError(t, err)
	second, err := svc.Analyze(context.Background(), model, strictThresholds())
	testutil.AssertNoError(t, err)

	if len(first.GodClasses) == 0 || len(first.Hubs) == 0 {
		t.Fatalf("Expected findings and hubs to compare, got %+v", first)
	}
	testutil.AssertEqual(t, first.GodClasses, second.GodClasses)
	testutil.AssertEqual(t, first.Hubs, second.Hubs)

	calibrated := analyzer.NewCalibrator(nil).CalibrateModel(model, "")
	third, err := svc.Analyze(context.Background(), bankingModel(t), calibrated)
	testutil.AssertNoError(t, err)
	fourth, err := svc.Analyze(context.Background(), bankingModel(t), analyzer.NewCalibrator(nil).CalibrateModel(bankingModel(t), ""))
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, third.GodClasses, fourth.GodClasses)
	testutil.AssertEqual(t, third.Hubs, fourth.Hubs)
}

func TestAnalysisService_EmptyModel(t *testing.T) {
	svc := NewAnalysisService(AnalysisOptionsFromConfig(nil), nil, nil)

	resp, err := svc.Analyze(context.Background(), domain.NewDesignModel(), domain.Thresholds{})
	testutil.AssertNoError(t, err)
	if len(resp.GodClasses) != 0 || len(resp.Hubs) != 0 {
		t.Errorf("Expected no findings for an empty model, got %+v", resp)
	}

	if _, err := svc.Analyze(context.Background(), nil, domain.Thresholds{}); err == nil {
		t.Error("Expected error for nil model")
	}
}

func TestAnalysisService_ExecutorFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewAnalysisService(AnalysisOptionsFromConfig(nil), nil, nil)
	_, err := svc.Analyze(ctx, bankingModel(t), domain.Thresholds{})

	var aggErr *AggregatedError
	if !errors.As(err, &aggErr) {
		t.Fatalf("Expected AggregatedError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}
}

func TestAnalysisOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.HubLike.TopK = 3
	cfg.HubLike.Damping = 0.9
	cfg.GodClass.Enabled = false

	opts := AnalysisOptionsFromConfig(cfg)
	if opts.EnableGodClass || !opts.EnableHubLike {
		t.Errorf("Expected god class off and hub like on, got %+v", opts)
	}
	if opts.HubLike.TopK != 3 || opts.HubLike.PageRank.Damping != 0.9 {
		t.Errorf("Expected top_k 3 and damping 0.9, got %+v", opts.HubLike)
	}
	if opts.HubLike.PageRank.MaxIterations != analyzer.DefaultMaxIterations {
		t.Errorf("Expected %d iterations, got %d", analyzer.DefaultMaxIterations, opts.HubLike.PageRank.MaxIterations)
	}
}
