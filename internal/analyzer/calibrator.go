package analyzer

import (
	"context"
	"strings"

	"github.com/ludo-technologies/archscan/domain"
)

// Calibration defaults
const (
	// DefaultWordsPerPage is the number of words counted as one page of context
	DefaultWordsPerPage = 300

	// DefaultPercentile is the quantile used for upper normalization bounds
	DefaultPercentile = 0.95

	baseSuspiciousScore = 0.50
	baseGodClassScore   = 0.75
)

// CalibratorConfig configures the Calibrator
type CalibratorConfig struct {
	// WordsPerPage converts a word count to pages (default: 300)
	WordsPerPage int

	// Percentile is the quantile for WMC, ATFD, FanIn and FanOut upper bounds (default: 0.95)
	Percentile float64
}

// DefaultCalibratorConfig returns a config with the standard values
func DefaultCalibratorConfig() *CalibratorConfig {
	return &CalibratorConfig{
		WordsPerPage: DefaultWordsPerPage,
		Percentile:   DefaultPercentile,
	}
}

// Calibrator derives normalization bounds from metric distributions and
// scales the decision thresholds by the size of a context document
type Calibrator struct {
	config *CalibratorConfig
}

// NewCalibrator creates a new Calibrator
func NewCalibrator(config *CalibratorConfig) *Calibrator {
	if config == nil {
		config = DefaultCalibratorConfig()
	}
	if config.WordsPerPage <= 0 {
		config.WordsPerPage = DefaultWordsPerPage
	}
	if config.Percentile <= 0 || config.Percentile > 1 {
		config.Percentile = DefaultPercentile
	}
	return &Calibrator{config: config}
}

// Bounds computes the normalization bounds for a set of distributions.
// Empty distributions fall back to min 0 and max 1.
func (c *Calibrator) Bounds(d domain.MetricDistributions) domain.Thresholds {
	q := c.config.Percentile
	return domain.Thresholds{
		WMCMin:    domain.Float(MinOr(d.WMC, domain.DefaultBoundMin)),
		WMCMax:    domain.Float(UpperPercentile(d.WMC, q)),
		ATFDMin:   domain.Float(MinOr(d.ATFD, domain.DefaultBoundMin)),
		ATFDMax:   domain.Float(UpperPercentile(d.ATFD, q)),
		FanInMax:  domain.Float(UpperPercentile(d.FanIn, q)),
		FanOutMax: domain.Float(UpperPercentile(d.FanOut, q)),
		LRCMax:    domain.Float(MaxOr(d.LRC, domain.DefaultBoundMax)),
	}
}

// ContextScale returns the page count and scale factor for a word count.
// pages = max(words/WordsPerPage, 1) using integer division; scale = 1 + pages/10.
func (c *Calibrator) ContextScale(words int) (int, float64) {
	pages := words / c.config.WordsPerPage
	if pages < 1 {
		pages = 1
	}
	return pages, 1 + float64(pages)/10
}

// ScaledScores returns the decision thresholds for a context document.
// The second result is false only when no document was given; a document
// without words still counts as one page.
func (c *Calibrator) ScaledScores(contextText string) (domain.Thresholds, bool) {
	if contextText == "" {
		return domain.Thresholds{}, false
	}
	_, scale := c.ContextScale(WordCount(contextText))
	factor := scale / (scale + 1)
	return domain.Thresholds{
		ScoreSuspicious: domain.Float(baseSuspiciousScore * factor),
		ScoreGodClass:   domain.Float(baseGodClassScore * factor),
	}, true
}

// Calibrate computes bounds and, when contextText is non-empty, scaled
// decision thresholds
func (c *Calibrator) Calibrate(d domain.MetricDistributions, contextText string) domain.Thresholds {
	result := c.Bounds(d)
	if scores, ok := c.ScaledScores(contextText); ok {
		result = result.Merge(scores)
	}
	return result
}

// CalibrateModel computes the distributions of model and calibrates them
func (c *Calibrator) CalibrateModel(model *domain.DesignModel, contextText string) domain.Thresholds {
	return c.Calibrate(CollectDistributions(SnapshotAll(model)), contextText)
}

// CalibrateOnto merges calibrated values over base without modifying base
func (c *Calibrator) CalibrateOnto(base domain.Thresholds, model *domain.DesignModel, contextText string) domain.Thresholds {
	return base.Merge(c.CalibrateModel(model, contextText))
}

// WordCount counts whitespace-separated words
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ContextProvider is the statistical ThresholdProvider
type ContextProvider struct {
	calibrator    *Calibrator
	contextText   string
	distributions *domain.MetricDistributions
}

// NewContextProvider creates a provider calibrating against contextText,
// which may be empty
func NewContextProvider(calibrator *Calibrator, contextText string) *ContextProvider {
	if calibrator == nil {
		calibrator = NewCalibrator(nil)
	}
	return &ContextProvider{calibrator: calibrator, contextText: contextText}
}

// WithDistributions reuses precomputed distributions instead of
// recomputing them from the model
func (p *ContextProvider) WithDistributions(d domain.MetricDistributions) *ContextProvider {
	p.distributions = &d
	return p
}

// Name identifies the provider
func (p *ContextProvider) Name() string {
	return string(domain.SourceContext)
}

// ProvideThresholds implements domain.ThresholdProvider
func (p *ContextProvider) ProvideThresholds(_ context.Context, model *domain.DesignModel, base domain.Thresholds) (domain.Thresholds, error) {
	var d domain.MetricDistributions
	if p.distributions != nil {
		d = *p.distributions
	} else if model != nil {
		d = CollectDistributions(SnapshotAll(model))
	}
	return base.Merge(p.calibrator.Calibrate(d, p.contextText)), nil
}
