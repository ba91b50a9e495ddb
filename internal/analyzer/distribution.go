package analyzer

import (
	"math"
	"sort"

	"github.com/ludo-technologies/archscan/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metric names used in distribution reports
const (
	MetricWMC    = "WMC"
	MetricATFD   = "ATFD"
	MetricFanIn  = "FanIn"
	MetricFanOut = "FanOut"
	MetricLRC    = "LRC"
)

// CollectDistributions gathers the calibrated metrics of every snapshot
func CollectDistributions(snapshots []domain.ClassMetricSnapshot) domain.MetricDistributions {
	n := len(snapshots)
	d := domain.MetricDistributions{
		WMC:    make([]float64, 0, n),
		ATFD:   make([]float64, 0, n),
		FanIn:  make([]float64, 0, n),
		FanOut: make([]float64, 0, n),
		LRC:    make([]float64, 0, n),
	}
	for _, s := range snapshots {
		d.WMC = append(d.WMC, float64(s.Metrics.WMC))
		d.ATFD = append(d.ATFD, float64(s.Metrics.ATFD))
		d.FanIn = append(d.FanIn, float64(s.Metrics.FanIn))
		d.FanOut = append(d.FanOut, float64(s.Metrics.FanOut))
		d.LRC = append(d.LRC, float64(s.Metrics.LRC))
	}
	return d
}

// UpperPercentile returns sorted[floor(q*n)], clamped to the last element.
// An empty sequence yields 1.
func UpperPercentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return domain.DefaultBoundMax
	}
	sorted := sortedCopy(values)
	k := int(q * float64(len(sorted)))
	if k >= len(sorted) {
		k = len(sorted) - 1
	}
	if k < 0 {
		k = 0
	}
	return sorted[k]
}

// NearestRankPercentile returns sorted[round(q*n)-1] clamped to [0,n-1],
// rounding half to even. An empty sequence yields 0.
func NearestRankPercentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := sortedCopy(values)
	k := int(math.RoundToEven(q*float64(len(sorted)))) - 1
	if k > len(sorted)-1 {
		k = len(sorted) - 1
	}
	if k < 0 {
		k = 0
	}
	return sorted[k]
}

// MinOr returns the minimum of values, or def when empty
func MinOr(values []float64, def float64) float64 {
	if len(values) == 0 {
		return def
	}
	return floats.Min(values)
}

// MaxOr returns the maximum of values, or def when empty
func MaxOr(values []float64, def float64) float64 {
	if len(values) == 0 {
		return def
	}
	return floats.Max(values)
}

// Stats summarises a distribution. An empty sequence yields zero stats.
func Stats(values []float64) domain.MetricStats {
	if len(values) == 0 {
		return domain.MetricStats{}
	}
	return domain.MetricStats{
		Min:  floats.Min(values),
		P50:  NearestRankPercentile(values, 0.50),
		Mean: stat.Mean(values, nil),
		P90:  NearestRankPercentile(values, 0.90),
		Max:  floats.Max(values),
	}
}

// DistributionStats returns Stats for every metric keyed by metric name
func DistributionStats(d domain.MetricDistributions) map[string]domain.MetricStats {
	return map[string]domain.MetricStats{
		MetricWMC:    Stats(d.WMC),
		MetricATFD:   Stats(d.ATFD),
		MetricFanIn:  Stats(d.FanIn),
		MetricFanOut: Stats(d.FanOut),
		MetricLRC:    Stats(d.LRC),
	}
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}
