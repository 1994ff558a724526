package pricing_fx

import (
	"context"
	"fmt"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripplanner/internal/infra"
	"tripplanner/internal/services"
)

var Module = fx.Provide(
	ProvidePricingProvider)

// ProvidePricingProvider picks the pricing backend named by PRICING_PROVIDER.
func ProvidePricingProvider(lc fx.Lifecycle, cfg *infra.Config, logger *zap.Logger) (services.PricingProvider, error) {
	logger.Info("initializing pricing provider", zap.String("provider", cfg.PricingProvider))

	switch cfg.PricingProvider {
	case "", "mock":
		return services.NewMockPricingProvider(), nil
	case "serpapi":
		if cfg.SerpAPIKey == "" {
			return nil, fmt.Errorf("SERPAPI_KEY is required when using the serpapi pricing provider")
		}
		return services.NewSerpAPIPricingProvider(cfg.SerpAPIKey, cfg.DepartureAirport, services.NewInMemoryQuoteCache()), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when using the openai pricing provider")
		}
		completer := services.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		return services.NewLLMPricingProvider(completer, cfg.DepartureAirport), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when using the gemini pricing provider")
		}
		completer, err := services.NewGeminiCompleter(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return completer.Close()
			},
		})
		return services.NewLLMPricingProvider(completer, cfg.DepartureAirport), nil
	default:
		return nil, fmt.Errorf("unsupported pricing provider: %s. Use 'mock', 'serpapi', 'openai' or 'gemini'", cfg.PricingProvider)
	}
}
