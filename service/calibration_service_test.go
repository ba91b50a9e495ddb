package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/config"
	"github.com/ludo-technologies/archscan/internal/testutil"
)

type stubProvider struct {
	thresholds domain.Thresholds
	err        error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) ProvideThresholds(_ context.Context, _ *domain.DesignModel, base domain.Thresholds) (domain.Thresholds, error) {
	if p.err != nil {
		return domain.Thresholds{}, p.err
	}
	return base.Merge(p.thresholds), nil
}

func TestCalibrationService_Base(t *testing.T) {
	svc := NewCalibrationService(nil, nil, nil)
	base := domain.Thresholds{WMCMax: domain.Float(20)}

	result, err := svc.Calibrate(context.Background(), bankingModel(t), CalibrationRequest{Mode: domain.CalibrationNone, Base: base})
	testutil.AssertNoError(t, err)

	if result.Source != domain.SourceBase {
		t.Errorf("Expected source base, got %s", result.Source)
	}
	testutil.AssertEqual(t, base.ToMap(), result.Thresholds.ToMap())
}

func TestCalibrationService_Context(t *testing.T) {
	cfg := config.DefaultConfig().Calibration
	svc := NewCalibrationService(&cfg, nil, nil)
	base := domain.Thresholds{WMCMax: domain.Float(99), ScoreGodClass: domain.Float(0.9)}
	text := strings.Repeat("word ", 3000)

	result, err := svc.Calibrate(context.Background(), bankingModel(t), CalibrationRequest{
		Mode:        domain.CalibrationContext,
		ContextText: text,
		Base:        base,
	})
	testutil.AssertNoError(t, err)

	if result.Source != domain.SourceContext {
		t.Errorf("Expected source context, got %s", result.Source)
	}
	testutil.AssertFloatEqual(t, 0.5, result.Thresholds.GodClassScore())
	testutil.AssertFloatEqual(t, 1.0/3.0, result.Thresholds.SuspiciousScore())
	if _, hi := result.Thresholds.WMCBounds(); hi == 99 {
		t.Error("Expected calibrated wmc_max to replace the base value")
	}
	if *base.WMCMax != 99 {
		t.Error("Expected base thresholds to be unchanged")
	}
}

func TestCalibrationService_ContextWithoutText(t *testing.T) {
	svc := NewCalibrationService(nil, nil, nil)
	base := domain.Thresholds{ScoreGodClass: domain.Float(0.8)}

	result, err := svc.Calibrate(context.Background(), bankingModel(t), CalibrationRequest{Mode: domain.CalibrationContext, Base: base})
	testutil.AssertNoError(t, err)

	if result.Thresholds.GodClassScore() != 0.8 {
		t.Errorf("Expected base score_godclass 0.8 without context text, got %v", result.Thresholds.GodClassScore())
	}
	if _, ok := result.Thresholds.Get(domain.KeyLRCMax); !ok {
		t.Error("Expected bounds to be recomputed")
	}
}

func TestCalibrationService_AI(t *testing.T) {
	provider := &stubProvider{thresholds: domain.Thresholds{ScoreGodClass: domain.Float(0.6)}}
	svc := NewCalibrationService(nil, nil, nil).WithAIProvider(provider)

	result, err := svc.Calibrate(context.Background(), bankingModel(t), CalibrationRequest{
		Mode: domain.CalibrationAI,
		Base: domain.Thresholds{LRCMax: domain.Float(4)},
	})
	testutil.AssertNoError(t, err)

	if result.Source != domain.SourceAI {
		t.Errorf("Expected source ai, got %s", result.Source)
	}
	if result.Thresholds.GodClassScore() != 0.6 || result.Thresholds.LRCBound() != 4 {
		t.Errorf("Expected AI score over base bounds, got %v", result.Thresholds.ToMap())
	}
}

func TestCalibrationService_Errors(t *testing.T) {
	model := bankingModel(t)
	providerErr := errors.New("quota")

	testCases := []struct {
		name     string
		svc      *CalibrationServiceImpl
		req      CalibrationRequest
		code     string
		contains error
	}{
		{
			name: "ai without provider",
			svc:  NewCalibrationService(nil, nil, nil),
			req:  CalibrationRequest{Mode: domain.CalibrationAI},
			code: domain.ErrCodeCalibration,
		},
		{
			name: "unknown mode",
			svc:  NewCalibrationService(nil, nil, nil),
			req:  CalibrationRequest{Mode: "magic"},
			code: domain.ErrCodeConfigError,
		},
		{
			name: "invalid base",
			svc:  NewCalibrationService(nil, nil, nil),
			req:  CalibrationRequest{Base: domain.Thresholds{ScoreSuspicious: domain.Float(0.9)}},
			code: domain.ErrCodeConfigError,
		},
		{
			name: "inconsistent suggestion",
			svc: NewCalibrationService(nil, nil, nil).WithAIProvider(&stubProvider{
				thresholds: domain.Thresholds{ScoreGodClass: domain.Float(0.2)},
			}),
			req:  CalibrationRequest{Mode: domain.CalibrationAI},
			code: domain.ErrCodeCalibration,
		},
		{
			name:     "provider failure",
			svc:      NewCalibrationService(nil, nil, nil).WithAIProvider(&stubProvider{err: providerErr}),
			req:      CalibrationRequest{Mode: domain.CalibrationAI},
			contains: providerErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.svc.Calibrate(context.Background(), model, tc.req)
			if err == nil {
				t.Fatal("Expected error")
			}
			if tc.code != "" && domain.ErrorCode(err) != tc.code {
				t.Errorf("Expected %s, got %s (%v)", tc.code, domain.ErrorCode(err), err)
			}
			if tc.contains != nil && !errors.Is(err, tc.contains) {
				t.Errorf("Expected %v in chain, got %v", tc.contains, err)
			}
		})
	}
}
