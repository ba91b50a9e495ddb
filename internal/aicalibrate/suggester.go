// Package aicalibrate asks a language model to suggest detection thresholds
// from a model's metric distributions and a context document
package aicalibrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/analyzer"
	"go.uber.org/zap"
)

// Suggester defaults
const (
	DefaultExcerptChars = 6000
	DefaultTimeout      = 60 * time.Second
)

// ErrNoJSON is returned when the answer holds no JSON object
var ErrNoJSON = errors.New("no JSON object in response")

var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// Generator produces a text completion for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SuggesterConfig configures the Suggester
type SuggesterConfig struct {
	// ExcerptChars bounds how much of the context text is sent (default: 6000)
	ExcerptChars int

	// Timeout bounds a single generation call (default: 60s)
	Timeout time.Duration
}

// Suggester is the AI-backed ThresholdProvider
type Suggester struct {
	generator   Generator
	config      SuggesterConfig
	contextText string
	logger      *zap.Logger
}

// NewSuggester creates a suggester over generator
func NewSuggester(generator Generator, contextText string, config SuggesterConfig, logger *zap.Logger) *Suggester {
	if config.ExcerptChars <= 0 {
		config.ExcerptChars = DefaultExcerptChars
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Suggester{
		generator:   generator,
		config:      config,
		contextText: contextText,
		logger:      logger,
	}
}

// Name identifies the provider
func (s *Suggester) Name() string {
	return string(domain.SourceAI)
}

// ProvideThresholds implements domain.ThresholdProvider
func (s *Suggester) ProvideThresholds(ctx context.Context, model *domain.DesignModel, base domain.Thresholds) (domain.Thresholds, error) {
	if s.generator == nil {
		return domain.Thresholds{}, domain.NewCalibrationError("no AI generator configured", nil)
	}

	d := analyzer.CollectDistributions(analyzer.SnapshotAll(model))
	prompt, err := BuildPrompt(d, Excerpt(s.contextText, s.config.ExcerptChars))
	if err != nil {
		return domain.Thresholds{}, domain.NewCalibrationError("failed to build prompt", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	answer, err := s.generator.Generate(callCtx, prompt)
	if err != nil {
		return domain.Thresholds{}, domain.NewCalibrationError("threshold suggestion failed", err)
	}
	s.logger.Debug("received threshold suggestion",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(answer)),
	)

	suggested, ignored, err := ParseSuggestion(answer)
	if err != nil {
		return domain.Thresholds{}, domain.NewCalibrationError("invalid threshold suggestion", err)
	}
	if len(ignored) > 0 {
		s.logger.Warn("ignoring unrecognised suggestion fields", zap.Strings("fields", ignored))
	}

	effective := base.Merge(suggested)
	if err := effective.Validate(); err != nil {
		return domain.Thresholds{}, domain.NewCalibrationError("suggested thresholds are inconsistent", err)
	}
	return effective, nil
}

// Excerpt returns at most limit characters of text
func Excerpt(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// BuildPrompt renders the request sent to the model
func BuildPrompt(d domain.MetricDistributions, excerpt string) (string, error) {
	metrics, err := json.Marshal(d)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are a software engineering analyst specialised in design antipattern detection.\n")
	b.WriteString("You receive (a) the per-class distributions of the WMC, ATFD, FanIn, FanOut and LRC metrics ")
	b.WriteString("as JSON and (b) an excerpt of the document describing the system.\n\n")
	b.WriteString("Return ONLY a JSON object with the numeric fields ")
	b.WriteString(`"` + strings.Join(domain.ThresholdKeys, `", "`) + `".`)
	b.WriteString("\nEvery field must be present. Do not add commentary inside the object.\n\n")
	b.WriteString("### METRICS ###\n")
	b.Write(metrics)
	b.WriteString("\n\n### CONTEXT EXCERPT ###\n")
	b.WriteString(excerpt)
	b.WriteString("\n")
	return b.String(), nil
}

// ParseSuggestion extracts the outermost JSON object from answer and maps
// its numeric fields to thresholds. Unknown or non-numeric fields are
// returned in ignored.
func ParseSuggestion(answer string) (domain.Thresholds, []string, error) {
	block := jsonBlock.FindString(answer)
	if block == "" {
		return domain.Thresholds{}, nil, ErrNoJSON
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return domain.Thresholds{}, nil, fmt.Errorf("decoding suggestion: %w", err)
	}

	values := make(map[string]float64, len(raw))
	var ignored []string
	for key, v := range raw {
		if f, ok := v.(float64); ok {
			values[key] = f
			continue
		}
		ignored = append(ignored, key)
	}

	t, unknown := domain.ThresholdsFromMap(values)
	ignored = append(ignored, unknown...)
	return t, sortedUnique(ignored), nil
}

func sortedUnique(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
