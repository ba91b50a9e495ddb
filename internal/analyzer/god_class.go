package analyzer

import (
	"math"

	"github.com/ludo-technologies/archscan/domain"
	"go.uber.org/zap"
)

// Score weights. The remaining 0.2 of the composite is reserved for a
// semantic component that is not computed yet.
const (
	weightBase         = 0.5
	weightArchitecture = 0.3

	weightWMC      = 0.4
	weightATFD     = 0.3
	weightCohesion = 0.3

	weightLRC    = 0.4
	weightFanOut = 0.3
	weightFanIn  = 0.3
)

// GodClassDetector scores classes and labels god-class candidates
type GodClassDetector struct {
	logger *zap.Logger
}

// NewGodClassDetector creates a detector. A nil logger discards output.
func NewGodClassDetector(logger *zap.Logger) *GodClassDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GodClassDetector{logger: logger}
}

// Detect scores every class of model in insertion order
func (d *GodClassDetector) Detect(model *domain.DesignModel, thresholds domain.Thresholds) []domain.GodClassFinding {
	if model == nil {
		return []domain.GodClassFinding{}
	}
	return d.DetectSnapshots(SnapshotAll(model), thresholds)
}

// DetectSnapshots scores precomputed snapshots, preserving their order
func (d *GodClassDetector) DetectSnapshots(snapshots []domain.ClassMetricSnapshot, thresholds domain.Thresholds) []domain.GodClassFinding {
	findings := make([]domain.GodClassFinding, 0)

	for _, s := range snapshots {
		score := GodClassScore(s.Metrics, thresholds)
		label, flagged := Classify(score, thresholds)
		if !flagged {
			d.logger.Debug("class below suspicious threshold",
				zap.String("class", s.Name),
				zap.Float64("score", Round2(score)),
				zap.Int("wmc", s.Metrics.WMC),
				zap.Int("atfd", s.Metrics.ATFD),
				zap.Float64("tcc", Round2(s.Metrics.TCC)),
				zap.Int("fan_in", s.Metrics.FanIn),
				zap.Int("fan_out", s.Metrics.FanOut),
				zap.Int("lrc", s.Metrics.LRC),
			)
			continue
		}

		metrics := s.Metrics
		metrics.TCC = Round2(metrics.TCC)
		findings = append(findings, domain.GodClassFinding{
			Class:   s.Name,
			Score:   Round2(score),
			Label:   label,
			Metrics: metrics,
		})
		d.logger.Debug("god class candidate",
			zap.String("class", s.Name),
			zap.String("label", string(label)),
			zap.Float64("score", Round2(score)),
		)
	}

	return findings
}

// GodClassScore computes the weighted composite score of a class
func GodClassScore(m domain.ClassMetrics, t domain.Thresholds) float64 {
	wmcMin, wmcMax := t.WMCBounds()
	atfdMin, atfdMax := t.ATFDBounds()

	wmcN := Normalize(float64(m.WMC), wmcMin, wmcMax)
	atfdN := Normalize(float64(m.ATFD), atfdMin, atfdMax)
	fanInN := NormalizeBounded(float64(m.FanIn), t.FanInBound())
	fanOutN := NormalizeBounded(float64(m.FanOut), t.FanOutBound())
	lrcN := NormalizeBounded(float64(m.LRC), t.LRCBound())
	cohesionN := 1 - m.TCC

	base := weightWMC*wmcN + weightATFD*atfdN + weightCohesion*cohesionN
	arch := weightLRC*lrcN + weightFanOut*fanOutN + weightFanIn*fanInN

	return weightBase*base + weightArchitecture*arch
}

// Normalize is min-max normalization without clamping. A zero range yields 0.
func Normalize(x, lo, hi float64) float64 {
	rng := hi - lo
	if rng == 0 {
		return 0.0
	}
	return (x - lo) / rng
}

// NormalizeBounded returns min(x / max(bound, 1), 1)
func NormalizeBounded(x, bound float64) float64 {
	return math.Min(x/math.Max(bound, 1), 1)
}

// Classify maps a score to a label. The second result is false when the
// score is below the suspicious threshold.
func Classify(score float64, t domain.Thresholds) (domain.GodClassLabel, bool) {
	switch {
	case score >= t.GodClassScore():
		return domain.LabelGodClass, true
	case score >= t.SuspiciousScore():
		return domain.LabelSuspicious, true
	default:
		return "", false
	}
}

// Round2 rounds to two decimal places
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
