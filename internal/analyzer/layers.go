package analyzer

import "strings"

// Layer is the architectural layer inferred from a package name
type Layer string

const (
	LayerUnknown Layer = "unknown"
	LayerUI      Layer = "ui"
	LayerDAO     Layer = "dao"
	LayerService Layer = "service"
	LayerOther   Layer = "other"
)

// layerKeywords is checked in order; the first match wins
var layerKeywords = []struct {
	layer    Layer
	keywords []string
}{
	{LayerUI, []string{"ui", "presentation"}},
	{LayerDAO, []string{"dao", "repository"}},
	{LayerService, []string{"service", "logic"}},
}

// ClassifyLayer maps a package name to a layer using case-insensitive
// substring matching
func ClassifyLayer(pkg string) Layer {
	if pkg == "" {
		return LayerUnknown
	}
	p := strings.ToLower(pkg)
	for _, entry := range layerKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(p, kw) {
				return entry.layer
			}
		}
	}
	return LayerOther
}
