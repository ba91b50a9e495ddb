package analyzer

import (
	"sort"

	"github.com/ludo-technologies/archscan/domain"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// DefaultTopK is the default number of hubs reported
const DefaultTopK = 10

// HubLikeConfig configures the HubLikeDetector
type HubLikeConfig struct {
	// TopK bounds the number of reported hubs (default: 10)
	TopK int

	// PageRank settings used for ordering
	PageRank PageRankConfig
}

// DefaultHubLikeConfig returns a config with sensible defaults
func DefaultHubLikeConfig() *HubLikeConfig {
	return &HubLikeConfig{
		TopK:     DefaultTopK,
		PageRank: DefaultPageRankConfig(),
	}
}

// HubLikeDetector flags classes whose total degree is a statistical
// outlier, ordered by PageRank
type HubLikeDetector struct {
	config *HubLikeConfig
	logger *zap.Logger
}

// NewHubLikeDetector creates a new detector
func NewHubLikeDetector(config *HubLikeConfig, logger *zap.Logger) *HubLikeDetector {
	if config == nil {
		config = DefaultHubLikeConfig()
	}
	if config.TopK <= 0 {
		config.TopK = DefaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HubLikeDetector{config: config, logger: logger}
}

// Detect returns hub candidates sorted by rank descending, at most TopK.
// A model without dependency edges yields an empty slice.
func (d *HubLikeDetector) Detect(model *domain.DesignModel) []domain.HubCandidate {
	g := BuildClassGraph(model)
	return d.DetectGraph(g)
}

// DetectGraph runs detection over an already built class graph
func (d *HubLikeDetector) DetectGraph(g *ClassGraph) []domain.HubCandidate {
	n := g.NodeCount()
	if n == 0 {
		return []domain.HubCandidate{}
	}

	ranks := PageRank(g, d.config.PageRank)

	degrees := make([]float64, n)
	for i := 0; i < n; i++ {
		degrees[i] = float64(g.Degree(int64(i)))
	}
	mean, std := stat.PopMeanStdDev(degrees, nil)
	threshold := mean + std

	d.logger.Debug("hub degree threshold",
		zap.Int("nodes", n),
		zap.Float64("mean", mean),
		zap.Float64("std", std),
		zap.Float64("threshold", threshold),
	)

	hubs := make([]domain.HubCandidate, 0)
	order := make(map[string]int)
	for i := 0; i < n; i++ {
		if degrees[i] <= threshold {
			continue
		}
		id := int64(i)
		name := g.Name(id)
		order[name] = i
		hubs = append(hubs, domain.HubCandidate{
			Class:     name,
			Rank:      ranks[i],
			Degree:    g.Degree(id),
			InDegree:  g.InDegree(id),
			OutDegree: g.OutDegree(id),
		})
	}

	// Ties keep first-appearance order
	sort.SliceStable(hubs, func(i, j int) bool {
		if hubs[i].Rank != hubs[j].Rank {
			return hubs[i].Rank > hubs[j].Rank
		}
		return order[hubs[i].Class] < order[hubs[j].Class]
	})

	if len(hubs) > d.config.TopK {
		hubs = hubs[:d.config.TopK]
	}
	return hubs
}
