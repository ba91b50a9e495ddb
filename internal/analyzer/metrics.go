package analyzer

import (
	"strings"

	"github.com/ludo-technologies/archscan/domain"
)

// WMC returns the Weighted Methods per Class, i.e. the number of operations
func WMC(c *domain.Class) int {
	return len(c.Operations)
}

// ATFD returns Access To Foreign Data, approximated by the number of
// outgoing dependencies
func ATFD(c *domain.Class) int {
	return c.OutgoingCount()
}

// FanIn returns the number of classes depending on c
func FanIn(c *domain.Class) int {
	return c.IncomingCount()
}

// FanOut returns the number of classes c depends on
func FanOut(c *domain.Class) int {
	return c.OutgoingCount()
}

// TCC returns Tight Class Cohesion in [0,1].
//
// Two operations are considered to share state when some attribute name
// appears, case-insensitively, as a substring of both operation names.
// An attribute with an empty name is a substring of every name, so it
// makes every pair shared. Classes with fewer than two operations are
// fully cohesive.
func TCC(c *domain.Class) float64 {
	ops := c.Operations
	if len(ops) < 2 {
		return 1.0
	}

	attrs := make([]string, 0, len(c.Attributes))
	seen := make(map[string]bool, len(c.Attributes))
	for _, a := range c.Attributes {
		name := strings.ToLower(a.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		attrs = append(attrs, name)
	}

	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = strings.ToLower(op.Name)
	}

	shared := 0
	total := len(ops) * (len(ops) - 1) / 2
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if shareAttribute(names[i], names[j], attrs) {
				shared++
			}
		}
	}

	return float64(shared) / float64(total)
}

func shareAttribute(op1, op2 string, attrs []string) bool {
	for _, a := range attrs {
		if strings.Contains(op1, a) && strings.Contains(op2, a) {
			return true
		}
	}
	return false
}

// LRC returns the Layer Responsibility Count: the number of distinct layers
// touched by the class itself and its direct dependencies.
func LRC(c *domain.Class, model *domain.DesignModel) int {
	layers := map[Layer]struct{}{
		ClassifyLayer(c.Package): {},
	}
	for _, id := range c.Outgoing() {
		dep := model.Class(id)
		if dep == nil {
			continue
		}
		layers[ClassifyLayer(dep.Package)] = struct{}{}
	}
	return len(layers)
}

// CalculateClassMetrics computes every metric for c. TCC is not rounded.
func CalculateClassMetrics(c *domain.Class, model *domain.DesignModel) domain.ClassMetrics {
	return domain.ClassMetrics{
		WMC:    WMC(c),
		ATFD:   ATFD(c),
		TCC:    TCC(c),
		FanIn:  FanIn(c),
		FanOut: FanOut(c),
		LRC:    LRC(c, model),
	}
}

// Snapshot computes the metric snapshot of one class
func Snapshot(c *domain.Class, model *domain.DesignModel) domain.ClassMetricSnapshot {
	return domain.ClassMetricSnapshot{
		ID:      c.ID,
		Name:    c.Name,
		Package: c.Package,
		Layer:   string(ClassifyLayer(c.Package)),
		Metrics: CalculateClassMetrics(c, model),
	}
}

// SnapshotAll computes metric snapshots for every class in model order
func SnapshotAll(model *domain.DesignModel) []domain.ClassMetricSnapshot {
	classes := model.Classes()
	result := make([]domain.ClassMetricSnapshot, 0, len(classes))
	for _, c := range classes {
		result = append(result, Snapshot(c, model))
	}
	return result
}
