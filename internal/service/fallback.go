package service

import (
	"context"

	"famcoach/internal/config"
	"famcoach/internal/llm"
	"famcoach/internal/middleware"
)

// generateWithFallback tries the primary model and then each configured
// alternate in order, returning the first non-empty result and the name
// of the model that produced it. Empty results count as failures.
func generateWithFallback(ctx context.Context, client llm.Client, cfg *config.Config, prompt string, maxTokens int, temperature float64) (string, string, error) {
	logger := middleware.GetLogger(ctx)
	models := append([]string{cfg.LLM.PrimaryModel}, cfg.LLM.FallbackModels...)

	var lastErr error
	for _, m := range models {
		text, err := client.Generate(ctx, m, prompt, maxTokens, temperature)
		if err == nil {
			return text, m, nil
		}
		lastErr = err
		logger.Warn("Generation attempt failed, trying next model", "model", m, "error", err)
	}
	return "", "", lastErr
}
