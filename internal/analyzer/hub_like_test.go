package analyzer

import (
	"fmt"
	"math"
	"testing"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/testutil"
)

// addStar declares hub and n leaves named prefix1..prefixN depending on it
func addStar(b *testutil.ModelBuilder, hub, prefix string, n int) *testutil.ModelBuilder {
	if hub != "" {
		b.Class(hub, "")
	}
	leaves := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		leaf := fmt.Sprintf("%s%d", prefix, i)
		b.Class(leaf, "")
		leaves = append(leaves, leaf)
	}
	return b
}

func hubClasses(hubs []domain.HubCandidate) []string {
	return domain.HubNames(hubs)
}

func TestHubLikeDetector_EmptyModel(t *testing.T) {
	d := NewHubLikeDetector(nil, nil)

	hubs := d.Detect(domain.NewDesignModel())
	if hubs == nil || len(hubs) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", hubs)
	}
}

func TestHubLikeDetector_NoEdges(t *testing.T) {
	model := testutil.NewModelBuilder(t).
		Class("A", "").
		Class("B", "").
		Build()

	if hubs := NewHubLikeDetector(nil, nil).Detect(model); len(hubs) != 0 {
		t.Errorf("Expected no hubs without edges, got %v", hubClasses(hubs))
	}
}

func TestHubLikeDetector_SingleEdge(t *testing.T) {
	model := testutil.NewModelBuilder(t).
		Class("A", "").
		Class("B", "").
		Edge("A", "B").
		Build()

	if hubs := NewHubLikeDetector(nil, nil).Detect(model); len(hubs) != 0 {
		t.Errorf("Expected no hubs when every degree equals the mean, got %v", hubClasses(hubs))
	}
}

func TestHubLikeDetector_Star(t *testing.T) {
	b := addStar(testutil.NewModelBuilder(t), "H", "L", 6)
	model := b.Star("H", "L1", "L2", "L3", "L4", "L5", "L6").Build()

	hubs := NewHubLikeDetector(nil, nil).Detect(model)
	if len(hubs) != 1 {
		t.Fatalf("Expected 1 hub, got %v", hubClasses(hubs))
	}

	h := hubs[0]
	if h.Class != "H" {
		t.Errorf("Expected hub H, got %s", h.Class)
	}
	if h.Degree != 6 || h.InDegree != 6 || h.OutDegree != 0 {
		t.Errorf("Expected degree 6 (in 6, out 0), got %d (in %d, out %d)", h.Degree, h.InDegree, h.OutDegree)
	}
	if h.Rank <= 0 || h.Rank >= 1 {
		t.Errorf("Expected rank in (0,1), got %v", h.Rank)
	}
}

func TestHubLikeDetector_OrderedByRank(t *testing.T) {
	b := testutil.NewModelBuilder(t)
	addStar(b, "H1", "A", 6)
	addStar(b, "H2", "B", 5)
	b.Star("H1", "A1", "A2", "A3", "A4", "A5", "A6")
	b.Star("H2", "B1", "B2", "B3", "B4", "B5")
	model := b.Build()

	hubs := NewHubLikeDetector(nil, nil).Detect(model)
	names := hubClasses(hubs)
	if len(names) != 2 || names[0] != "H1" || names[1] != "H2" {
		t.Fatalf("Expected [H1 H2], got %v", names)
	}
	if hubs[0].Rank <= hubs[1].Rank {
		t.Errorf("Expected H1 rank %v > H2 rank %v", hubs[0].Rank, hubs[1].Rank)
	}

	limited := NewHubLikeDetector(&HubLikeConfig{TopK: 1, PageRank: DefaultPageRankConfig()}, nil).Detect(model)
	if names := hubClasses(limited); len(names) != 1 || names[0] != "H1" {
		t.Errorf("Expected [H1] with TopK 1, got %v", names)
	}
}

func TestHubLikeDetector_TiesKeepFirstAppearance(t *testing.T) {
	b := testutil.NewModelBuilder(t).
		Class("H2", "").
		Class("H1", "")
	addStar(b, "", "A", 5)
	addStar(b, "", "B", 5)
	b.Star("H1", "A1", "A2", "A3", "A4", "A5")
	b.Star("H2", "B1", "B2", "B3", "B4", "B5")

	hubs := NewHubLikeDetector(nil, nil).Detect(b.Build())
	names := hubClasses(hubs)
	if len(names) != 2 {
		t.Fatalf("Expected 2 hubs, got %v", names)
	}
	if hubs[0].Rank != hubs[1].Rank {
		t.Fatalf("Expected symmetric hubs to tie, got %v and %v", hubs[0].Rank, hubs[1].Rank)
	}
	// H1 enters the graph first through A1
	if names[0] != "H1" || names[1] != "H2" {
		t.Errorf("Expected [H1 H2], got %v", names)
	}
}

func TestHubLikeDetector_Deterministic(t *testing.T) {
	b := testutil.NewModelBuilder(t)
	addStar(b, "H", "L", 8)
	b.Star("H", "L1", "L2", "L3", "L4", "L5", "L6", "L7", "L8")
	b.Edge("H", "L1")
	model := b.Build()

	d := NewHubLikeDetector(nil, nil)
	first := d.Detect(model)
	for i := 0; i < 5; i++ {
		again := d.Detect(model)
		if len(again) != len(first) {
			t.Fatalf("Expected %d hubs on every run, got %d", len(first), len(again))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Errorf("Run %d differs at %d: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestBuildClassGraph_CollapsesDuplicateNames(t *testing.T) {
	model := testutil.NewModelBuilder(t).
		ClassWithID("a1", "A", "").
		ClassWithID("a2", "A", "").
		ClassWithID("b", "B", "").
		Edge("a1", "b").
		Edge("a2", "b").
		Build()

	g := BuildClassGraph(model)
	if g.NodeCount() != 2 {
		t.Errorf("Expected 2 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.EdgeCount())
	}

	id, ok := g.ID("B")
	if !ok {
		t.Fatal("Expected node B")
	}
	if g.InDegree(id) != 1 {
		t.Errorf("Expected in-degree 1 for B, got %d", g.InDegree(id))
	}
}

func TestBuildClassGraph_SkipsNameSelfLoops(t *testing.T) {
	model := testutil.NewModelBuilder(t).
		ClassWithID("a1", "A", "").
		ClassWithID("a2", "A", "").
		Edge("a1", "a2").
		Build()

	g := BuildClassGraph(model)
	if g.NodeCount() != 0 {
		t.Errorf("Expected no nodes, got %d", g.NodeCount())
	}
	if hubs := NewHubLikeDetector(nil, nil).DetectGraph(g); len(hubs) != 0 {
		t.Errorf("Expected no hubs, got %v", hubClasses(hubs))
	}
}

func TestBuildClassGraph_FirstAppearanceIDs(t *testing.T) {
	model := testutil.NewModelBuilder(t).
		Class("Sink", "").
		Class("Source", "").
		Edge("Source", "Sink").
		Build()

	g := BuildClassGraph(model)
	// Sink has no outgoing edges so Source is met first
	if g.Name(0) != "Source" || g.Name(1) != "Sink" {
		t.Errorf("Expected [Source Sink], got [%s %s]", g.Name(0), g.Name(1))
	}
	if succ := g.Successors(0); len(succ) != 1 || succ[0] != 1 {
		t.Errorf("Expected successors [1], got %v", succ)
	}
	if pred := g.Predecessors(1); len(pred) != 1 || pred[0] != 0 {
		t.Errorf("Expected predecessors [0], got %v", pred)
	}
}

func TestPageRank_Cycle(t *testing.T) {
	model := testutil.NewModelBuilder(t).
		Class("A", "").
		Class("B", "").
		Edge("A", "B").
		Edge("B", "A").
		Build()

	ranks := PageRank(BuildClassGraph(model), DefaultPageRankConfig())
	if len(ranks) != 2 {
		t.Fatalf("Expected 2 ranks, got %d", len(ranks))
	}
	testutil.AssertFloatEqual(t, 0.5, ranks[0])
	testutil.AssertFloatEqual(t, 0.5, ranks[1])
}

func TestPageRank_SumsToOne(t *testing.T) {
	b := testutil.NewModelBuilder(t)
	addStar(b, "H", "L", 4)
	b.Star("H", "L1", "L2", "L3", "L4")
	b.Edge("H", "L1")

	ranks := PageRank(BuildClassGraph(b.Build()), DefaultPageRankConfig())
	sum := 0.0
	for _, r := range ranks {
		sum += r
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("Expected ranks to sum to 1, got %v", sum)
	}
}

func TestPageRank_Empty(t *testing.T) {
	if ranks := PageRank(BuildClassGraph(nil), DefaultPageRankConfig()); len(ranks) != 0 {
		t.Errorf("Expected no ranks, got %v", ranks)
	}
}
