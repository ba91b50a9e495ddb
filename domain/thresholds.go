package domain

import (
	"context"
	"fmt"
	"sort"
)

// Default values applied when a threshold key is absent
const (
	DefaultScoreGodClass   = 0.75
	DefaultScoreSuspicious = 0.50
	DefaultBoundMin        = 0.0
	DefaultBoundMax        = 1.0
)

// Threshold map keys
const (
	KeyWMCMin          = "wmc_min"
	KeyWMCMax          = "wmc_max"
	KeyATFDMin         = "atfd_min"
	KeyATFDMax         = "atfd_max"
	KeyFanInMax        = "fanin_max"
	KeyFanOutMax       = "fanout_max"
	KeyLRCMax          = "lrc_max"
	KeyScoreSuspicious = "score_suspicious"
	KeyScoreGodClass   = "score_godclass"
)

// ThresholdKeys lists every recognised key in canonical order
var ThresholdKeys = []string{
	KeyWMCMin, KeyWMCMax,
	KeyATFDMin, KeyATFDMax,
	KeyFanInMax, KeyFanOutMax, KeyLRCMax,
	KeyScoreSuspicious, KeyScoreGodClass,
}

// Thresholds holds normalization bounds and decision thresholds.
// A nil field is absent and resolves to its documented default.
type Thresholds struct {
	WMCMin          *float64 `json:"wmc_min,omitempty" yaml:"wmc_min,omitempty" mapstructure:"wmc_min"`
	WMCMax          *float64 `json:"wmc_max,omitempty" yaml:"wmc_max,omitempty" mapstructure:"wmc_max"`
	ATFDMin         *float64 `json:"atfd_min,omitempty" yaml:"atfd_min,omitempty" mapstructure:"atfd_min"`
	ATFDMax         *float64 `json:"atfd_max,omitempty" yaml:"atfd_max,omitempty" mapstructure:"atfd_max"`
	FanInMax        *float64 `json:"fanin_max,omitempty" yaml:"fanin_max,omitempty" mapstructure:"fanin_max"`
	FanOutMax       *float64 `json:"fanout_max,omitempty" yaml:"fanout_max,omitempty" mapstructure:"fanout_max"`
	LRCMax          *float64 `json:"lrc_max,omitempty" yaml:"lrc_max,omitempty" mapstructure:"lrc_max"`
	ScoreSuspicious *float64 `json:"score_suspicious,omitempty" yaml:"score_suspicious,omitempty" mapstructure:"score_suspicious"`
	ScoreGodClass   *float64 `json:"score_godclass,omitempty" yaml:"score_godclass,omitempty" mapstructure:"score_godclass"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// WMCBounds returns the normalization range for WMC
func (t Thresholds) WMCBounds() (float64, float64) {
	return valueOr(t.WMCMin, DefaultBoundMin), valueOr(t.WMCMax, DefaultBoundMax)
}

// ATFDBounds returns the normalization range for ATFD
func (t Thresholds) ATFDBounds() (float64, float64) {
	return valueOr(t.ATFDMin, DefaultBoundMin), valueOr(t.ATFDMax, DefaultBoundMax)
}

// FanInBound returns the upper bound for FanIn
func (t Thresholds) FanInBound() float64 {
	return valueOr(t.FanInMax, DefaultBoundMax)
}

// FanOutBound returns the upper bound for FanOut
func (t Thresholds) FanOutBound() float64 {
	return valueOr(t.FanOutMax, DefaultBoundMax)
}

// LRCBound returns the upper bound for LRC
func (t Thresholds) LRCBound() float64 {
	return valueOr(t.LRCMax, DefaultBoundMax)
}

// SuspiciousScore returns the score at or above which a class is suspicious
func (t Thresholds) SuspiciousScore() float64 {
	return valueOr(t.ScoreSuspicious, DefaultScoreSuspicious)
}

// GodClassScore returns the score at or above which a class is a god class
func (t Thresholds) GodClassScore() float64 {
	return valueOr(t.ScoreGodClass, DefaultScoreGodClass)
}

// fields maps each key to its field for generic access
func (t *Thresholds) fields() map[string]**float64 {
	return map[string]**float64{
		KeyWMCMin:          &t.WMCMin,
		KeyWMCMax:          &t.WMCMax,
		KeyATFDMin:         &t.ATFDMin,
		KeyATFDMax:         &t.ATFDMax,
		KeyFanInMax:        &t.FanInMax,
		KeyFanOutMax:       &t.FanOutMax,
		KeyLRCMax:          &t.LRCMax,
		KeyScoreSuspicious: &t.ScoreSuspicious,
		KeyScoreGodClass:   &t.ScoreGodClass,
	}
}

// Merge returns a copy of t where every key present in override replaces
// the value from t. Neither receiver nor argument is modified.
func (t Thresholds) Merge(override Thresholds) Thresholds {
	merged := t.Clone()
	dst := merged.fields()
	for key, src := range override.fields() {
		if *src != nil {
			*dst[key] = Float(**src)
		}
	}
	return merged
}

// Clone returns a deep copy
func (t Thresholds) Clone() Thresholds {
	var c Thresholds
	dst := c.fields()
	for key, src := range t.fields() {
		if *src != nil {
			*dst[key] = Float(**src)
		}
	}
	return c
}

// Get returns the value for key and whether it is present
func (t Thresholds) Get(key string) (float64, bool) {
	field, ok := t.fields()[key]
	if !ok || *field == nil {
		return 0, false
	}
	return **field, true
}

// Set assigns a value to key
func (t *Thresholds) Set(key string, value float64) error {
	field, ok := t.fields()[key]
	if !ok {
		return fmt.Errorf("unknown threshold key %q", key)
	}
	*field = Float(value)
	return nil
}

// IsEmpty reports whether no key is present
func (t Thresholds) IsEmpty() bool {
	for _, field := range t.fields() {
		if *field != nil {
			return false
		}
	}
	return true
}

// ToMap returns the present keys and their values
func (t Thresholds) ToMap() map[string]float64 {
	result := make(map[string]float64)
	for key, field := range t.fields() {
		if *field != nil {
			result[key] = **field
		}
	}
	return result
}

// ThresholdsFromMap builds Thresholds from a flat map. Unrecognised keys
// are returned separately and otherwise ignored.
func ThresholdsFromMap(values map[string]float64) (Thresholds, []string) {
	var t Thresholds
	var unknown []string
	for key, value := range values {
		if err := t.Set(key, value); err != nil {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return t, unknown
}

// Validate checks that present values are consistent
func (t Thresholds) Validate() error {
	for key, field := range t.fields() {
		if *field != nil && **field < 0 {
			return fmt.Errorf("threshold %s must be >= 0, got %g", key, **field)
		}
	}
	if t.SuspiciousScore() > t.GodClassScore() {
		return fmt.Errorf("score_suspicious (%g) must be <= score_godclass (%g)",
			t.SuspiciousScore(), t.GodClassScore())
	}
	if lo, hi := t.WMCBounds(); lo > hi {
		return fmt.Errorf("wmc_min (%g) must be <= wmc_max (%g)", lo, hi)
	}
	if lo, hi := t.ATFDBounds(); lo > hi {
		return fmt.Errorf("atfd_min (%g) must be <= atfd_max (%g)", lo, hi)
	}
	return nil
}

// ThresholdProvider produces a threshold mapping for a model.
// Implementations receive the base thresholds and return the effective set.
type ThresholdProvider interface {
	Name() string
	ProvideThresholds(ctx context.Context, model *DesignModel, base Thresholds) (Thresholds, error)
}
