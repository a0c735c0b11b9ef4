package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrUnknownAsset        = fmt.Errorf("%w: unknown crypto asset", ErrInvalidInput)
	ErrUnsupportedCurrency = fmt.Errorf("%w: unsupported fiat currency", ErrInvalidInput)
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be a positive finite number", ErrInvalidInput)

	ErrNoPriceAvailable = errors.New("no price available")
	ErrFeedUnavailable  = errors.New("price feed unavailable")
)
