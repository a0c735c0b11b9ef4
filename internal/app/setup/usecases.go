package setup

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-cashout-service/internal/usecase"
)

type UseCases struct {
	QuoteResolver usecase.QuoteResolver
	QuoteUsecase  usecase.QuoteUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	resolver := usecase.NewDefaultQuoteResolver(
		deps.Feed,
		deps.Fallback,
		usecase.ResolverConfig{
			LiveMaxAge:     deps.Config.PriceFeed.LiveMaxAge,
			FallbackMaxAge: deps.Config.PriceFeed.FallbackMaxAge,
		},
		deps.Metrics,
		slog.Default().With("component", "quote_resolver"),
	)

	quoteUsecase, err := usecase.NewDefaultQuoteUsecase(resolver, deps.Publisher, deps.Metrics)
	if err != nil {
		return nil, fmt.Errorf("quote usecase: %w", err)
	}

	return &UseCases{
		QuoteResolver: resolver,
		QuoteUsecase:  quoteUsecase,
	}, nil
}
