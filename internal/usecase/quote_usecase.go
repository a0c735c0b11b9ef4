package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/LavaJover/shvark-cashout-service/internal/infrastructure/metrics"
	"github.com/jaevor/go-nanoid"
)

type QuoteUsecase interface {
	Quote(ctx context.Context, crypto, fiat string) (QuoteResult, error)
	Convert(ctx context.Context, crypto, fiat string, amount float64) (ConversionResult, error)
}

type QuoteResult struct {
	Asset      domain.AssetID
	Currency   domain.CurrencyCode
	Quote      domain.Quote
	ResolvedAt time.Time
}

type ConversionResult struct {
	QuoteResult
	QuoteID       string
	PayAmount     float64
	ReceiveAmount float64
	Display       string
}

type DefaultQuoteUsecase struct {
	resolver  QuoteResolver
	publisher domain.QuoteEventPublisher
	metrics   *metrics.QuoteMetrics
	newID     func() string
	now       func() time.Time
}

func NewDefaultQuoteUsecase(
	resolver QuoteResolver,
	publisher domain.QuoteEventPublisher,
	quoteMetrics *metrics.QuoteMetrics,
) (*DefaultQuoteUsecase, error) {
	idGenerator, err := nanoid.Standard(12)
	if err != nil {
		return nil, err
	}
	return &DefaultQuoteUsecase{
		resolver:  resolver,
		publisher: publisher,
		metrics:   quoteMetrics,
		newID:     idGenerator,
		now:       time.Now,
	}, nil
}

func (uc *DefaultQuoteUsecase) Quote(ctx context.Context, crypto, fiat string) (QuoteResult, error) {
	asset, currency, err := parsePair(crypto, fiat)
	if err != nil {
		uc.recordFailure(err)
		return QuoteResult{}, err
	}

	q, err := uc.resolver.Resolve(ctx, asset, currency)
	if err != nil {
		uc.recordFailure(err)
		return QuoteResult{}, err
	}

	result := QuoteResult{
		Asset:      asset,
		Currency:   currency,
		Quote:      q,
		ResolvedAt: uc.now(),
	}
	if uc.metrics != nil {
		uc.metrics.RecordQuoteResolved(q.Provenance.Source(), string(currency))
	}
	if q.Degraded() {
		uc.reportDegraded(ctx, result)
	}
	return result, nil
}

func (uc *DefaultQuoteUsecase) Convert(ctx context.Context, crypto, fiat string, amount float64) (ConversionResult, error) {
	// amount is checked first so a bad form value never costs a feed call
	if err := ValidatePayAmount(amount); err != nil {
		uc.recordFailure(err)
		return ConversionResult{}, err
	}

	quoted, err := uc.Quote(ctx, crypto, fiat)
	if err != nil {
		return ConversionResult{}, err
	}

	receive, err := Convert(amount, quoted.Quote)
	if err != nil {
		uc.recordFailure(err)
		return ConversionResult{}, err
	}
	if uc.metrics != nil {
		uc.metrics.RecordConversion(string(quoted.Currency), quoted.Quote.Degraded())
	}
	return ConversionResult{
		QuoteResult:   quoted,
		QuoteID:       uc.newID(),
		PayAmount:     amount,
		ReceiveAmount: receive,
		Display:       FormatAmount(receive),
	}, nil
}

func (uc *DefaultQuoteUsecase) reportDegraded(ctx context.Context, result QuoteResult) {
	slog.Warn("serving degraded quote",
		"asset", result.Asset,
		"currency", result.Currency,
		"source", result.Quote.Provenance.Source(),
		"rate", result.Quote.Rate)

	if uc.publisher == nil {
		return
	}
	err := uc.publisher.PublishQuoteEvent(ctx, domain.QuoteEvent{
		Asset:      result.Asset,
		Currency:   result.Currency,
		Rate:       result.Quote.Rate,
		Source:     result.Quote.Provenance.Source(),
		ResolvedAt: result.ResolvedAt,
	})
	if err != nil {
		slog.Error("failed to publish degraded quote event", "asset", result.Asset, "error", err)
	}
}

func (uc *DefaultQuoteUsecase) recordFailure(err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		uc.metrics.RecordQuoteFailure("cancelled")
	case errors.Is(err, domain.ErrInvalidInput):
		uc.metrics.RecordQuoteFailure("invalid_input")
	case errors.Is(err, domain.ErrNoPriceAvailable):
		uc.metrics.RecordQuoteFailure("no_price")
	default:
		uc.metrics.RecordQuoteFailure("internal")
	}
}

func parsePair(crypto, fiat string) (domain.AssetID, domain.CurrencyCode, error) {
	asset, err := domain.ParseAsset(crypto)
	if err != nil {
		return "", "", err
	}
	currency, err := domain.ParseCurrency(fiat)
	if err != nil {
		return "", "", fmt.Errorf("crypto %s: %w", asset, err)
	}
	return asset, currency, nil
}
