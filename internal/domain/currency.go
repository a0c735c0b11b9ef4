package domain

import (
	"fmt"
	"strings"
)

// CurrencyCode is a lowercase ISO 4217 fiat code.
type CurrencyCode string

const (
	USD CurrencyCode = "usd"
	NGN CurrencyCode = "ngn"
	GBP CurrencyCode = "gbp"
	EUR CurrencyCode = "eur"
	GHS CurrencyCode = "ghs"
)

// SupportedCurrencies is the closed set of payout currencies.
var SupportedCurrencies = []CurrencyCode{USD, NGN, GBP, EUR, GHS}

func (c CurrencyCode) String() string {
	return string(c)
}

// ParseCurrency normalizes raw and checks it against SupportedCurrencies.
func ParseCurrency(raw string) (CurrencyCode, error) {
	code := CurrencyCode(strings.ToLower(strings.TrimSpace(raw)))
	for _, c := range SupportedCurrencies {
		if c == code {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, raw)
}
