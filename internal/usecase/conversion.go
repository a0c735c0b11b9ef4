package usecase

import (
	"math"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// UnavailableDisplay replaces the receive amount when no quote could be used.
const UnavailableDisplay = "0.00"

var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// ValidatePayAmount rejects amounts that cannot be converted.
func ValidatePayAmount(payAmount float64) error {
	if math.IsNaN(payAmount) || math.IsInf(payAmount, 0) || payAmount <= 0 {
		return domain.ErrInvalidAmount
	}
	return nil
}

// Convert returns payAmount expressed in the quote's currency.
func Convert(payAmount float64, q domain.Quote) (float64, error) {
	if err := ValidatePayAmount(payAmount); err != nil {
		return 0, err
	}
	if !domain.UsableRate(q.Rate) {
		return 0, domain.ErrNoPriceAvailable
	}
	return payAmount * q.Rate, nil
}

// FormatAmount renders v with thousands separators and exactly two decimals,
// rounding half away from zero.
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return UnavailableDisplay
	}
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return amountPrinter.Sprintf("%.2f", rounded)
}

// DisplayAmount is what the form shows: the formatted amount, or the
// UnavailableDisplay sentinel when err is set.
func DisplayAmount(v float64, err error) string {
	if err != nil {
		return UnavailableDisplay
	}
	return FormatAmount(v)
}
