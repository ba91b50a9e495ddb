package app

import (
	"context"
	"time"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/aicalibrate"
	"github.com/ludo-technologies/archscan/internal/config"
	"github.com/ludo-technologies/archscan/internal/store"
	"go.uber.org/zap"
)

// OpenStore opens the SQLite run history at path
func OpenStore(path string) (RunRecorder, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// NewGeminiProviderFactory returns a factory that builds a Gemini backed
// suggester from cfg
func NewGeminiProviderFactory(cfg config.AIConfig, logger *zap.Logger) AIProviderFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, contextText string) (domain.ThresholdProvider, error) {
		gen, err := aicalibrate.NewGeminiGenerator(ctx, aicalibrate.GeminiConfig{
			Model:     cfg.Model,
			APIKeyEnv: cfg.APIKeyEnv,
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("AI provider ready", zap.String("generator", gen.Name()))
		return aicalibrate.NewSuggester(gen, contextText, aicalibrate.SuggesterConfig{
			ExcerptChars: cfg.ExcerptChars,
			Timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
		}, logger), nil
	}
}
