package config

import (
	"strconv"

	"github.com/ludo-technologies/archscan/domain"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// StrictnessPreset holds threshold values for different strictness levels
type StrictnessPreset struct {
	ScoreSuspicious float64
	ScoreGodClass   float64
	TopK            int
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			ScoreSuspicious: 0.60,
			ScoreGodClass:   0.85,
			TopK:            5,
		},
		StrictnessStandard: {
			ScoreSuspicious: domain.DefaultScoreSuspicious,
			ScoreGodClass:   domain.DefaultScoreGodClass,
			TopK:            DefaultTopK,
		},
		StrictnessStrict: {
			ScoreSuspicious: 0.40,
			ScoreGodClass:   0.65,
			TopK:            20,
		},
	}
}

// CalibrationModes lists the modes offered by init
var CalibrationModes = []domain.CalibrationMode{
	domain.CalibrationNone,
	domain.CalibrationContext,
	domain.CalibrationAI,
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(mode domain.CalibrationMode, strictness Strictness) string {
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}
	if mode == "" {
		mode = domain.CalibrationNone
	}

	return `# archscan Configuration
# Documentation: https://github.com/ludo-technologies/archscan

# ============================================================================
# THRESHOLDS
# ============================================================================
# Base threshold map. Calibrated values override these keys; absent keys
# fall back to min 0, max 1, score_suspicious 0.50, score_godclass 0.75.
thresholds:
  # Scores at or above score_godclass are labelled god-class
  score_godclass: ` + formatFloat(strict.ScoreGodClass) + `
  # Scores at or above score_suspicious are labelled suspicious
  score_suspicious: ` + formatFloat(strict.ScoreSuspicious) + `
  # Normalization bounds (uncomment to pin them)
  # wmc_min: 0
  # wmc_max: 20
  # atfd_min: 0
  # atfd_max: 8
  # fanin_max: 10
  # fanout_max: 10
  # lrc_max: 4

# ============================================================================
# DETECTORS
# ============================================================================
god_class:
  enabled: true

hub_like:
  enabled: true
  # Maximum number of hubs reported, ordered by PageRank
  top_k: ` + strconv.Itoa(strict.TopK) + `
  damping: 0.85
  max_iterations: 100
  tolerance: 0.000001

# ============================================================================
# CALIBRATION
# ============================================================================
calibration:
  # none: use the thresholds above
  # context: recompute bounds from the diagram, scale scores by --context size
  # ai: ask the AI provider for the full threshold map
  mode: ` + string(mode) + `
  words_per_page: 300
  percentile: 0.95

ai:
  provider: gemini
  model: gemini-2.5-flash
  # Environment variable holding the API key (a .env file is honoured)
  api_key_env: GEMINI_API_KEY
  excerpt_chars: 6000
  timeout_seconds: 60

# ============================================================================
# OUTPUT
# ============================================================================
output:
  # text, json, yaml or dot
  format: text
  # File receiving the effective thresholds (.json or .yaml), empty to skip
  metrics_out: ""

logging:
  # debug, info, warn, error
  level: warn
  # console or json
  format: console

performance:
  max_goroutines: 4
  timeout_seconds: 300

store:
  # Record every analyze run in a SQLite history
  enabled: false
  path: .archscan/history.db
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# archscan Configuration (minimal)
# See full options: https://github.com/ludo-technologies/archscan

thresholds:
  score_godclass: 0.75
  score_suspicious: 0.5

hub_like:
  top_k: 10

calibration:
  mode: none
`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
