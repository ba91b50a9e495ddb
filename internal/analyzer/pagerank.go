package analyzer

import "math"

// PageRank defaults
const (
	DefaultDamping       = 0.85
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-6
)

// PageRankConfig configures the power iteration
type PageRankConfig struct {
	Damping       float64
	MaxIterations int

	// Tolerance is per node; iteration stops once the L1 change drops
	// below NodeCount*Tolerance
	Tolerance float64
}

// DefaultPageRankConfig returns the standard damping and convergence settings
func DefaultPageRankConfig() PageRankConfig {
	return PageRankConfig{
		Damping:       DefaultDamping,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

// PageRank computes the importance of every node of g by power iteration,
// indexed by node id. Rank of dangling nodes is spread uniformly.
// Iteration order is fixed so results are reproducible.
func PageRank(g *ClassGraph, config PageRankConfig) []float64 {
	n := g.NodeCount()
	if n == 0 {
		return []float64{}
	}
	if config.Damping <= 0 || config.Damping >= 1 {
		config.Damping = DefaultDamping
	}
	if config.MaxIterations <= 0 {
		config.MaxIterations = DefaultMaxIterations
	}
	if config.Tolerance <= 0 {
		config.Tolerance = DefaultTolerance
	}

	outNeighbors := make([][]int64, n)
	for i := 0; i < n; i++ {
		outNeighbors[i] = g.Successors(int64(i))
	}

	rank := make([]float64, n)
	newRank := make([]float64, n)
	initial := 1.0 / float64(n)
	for i := range rank {
		rank[i] = initial
	}

	damping := config.Damping
	teleport := (1.0 - damping) / float64(n)

	for iter := 0; iter < config.MaxIterations; iter++ {
		danglingSum := 0.0
		for i := 0; i < n; i++ {
			if len(outNeighbors[i]) == 0 {
				danglingSum += rank[i]
			}
		}
		base := teleport + damping*danglingSum/float64(n)
		for i := range newRank {
			newRank[i] = base
		}

		for i := 0; i < n; i++ {
			if len(outNeighbors[i]) == 0 {
				continue
			}
			contrib := damping * rank[i] / float64(len(outNeighbors[i]))
			for _, j := range outNeighbors[i] {
				newRank[j] += contrib
			}
		}

		diff := 0.0
		for i := range rank {
			diff += math.Abs(newRank[i] - rank[i])
		}
		rank, newRank = newRank, rank

		if diff < float64(n)*config.Tolerance {
			break
		}
	}

	return rank
}
