package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/LavaJover/shvark-cashout-service/internal/delivery/http/dto/quote/request"
	"github.com/LavaJover/shvark-cashout-service/internal/delivery/http/dto/quote/response"
	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/LavaJover/shvark-cashout-service/internal/usecase"
	"github.com/go-playground/validator/v10"
)

const (
	msgInvalidPair   = "Invalid crypto or fiat"
	msgInvalidAmount = "Invalid amount"
	msgNoPrice       = "No fallback price available"
	msgCancelled     = "Request cancelled"
	msgTimeout       = "Quote timed out"
	msgInternal      = "Internal server error"

	// nginx convention for a client that went away mid-request
	statusClientClosedRequest = 499
)

type QuoteHandler struct {
	uc       usecase.QuoteUsecase
	validate *validator.Validate
}

func NewQuoteHandler(uc usecase.QuoteUsecase) *QuoteHandler {
	return &QuoteHandler{
		uc:       uc,
		validate: validator.New(),
	}
}

// GetCryptoPrice handles GET /api/crypto-price?crypto=&fiat=
func (h *QuoteHandler) GetCryptoPrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := request.QuoteQuery{
		Crypto: q.Get("crypto"),
		Fiat:   q.Get("fiat"),
	}
	if err := h.validate.Struct(query); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPair)
		return
	}

	result, err := h.uc.Quote(r.Context(), query.Crypto, query.Fiat)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteResponse(result))
}

// GetConversion handles GET /api/convert?crypto=&fiat=&amount=
func (h *QuoteHandler) GetConversion(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := request.ConvertQuery{
		Crypto: q.Get("crypto"),
		Fiat:   q.Get("fiat"),
		Amount: q.Get("amount"),
	}
	if err := h.validate.Struct(query); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Amount" {
			writeError(w, http.StatusBadRequest, msgInvalidAmount)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidPair)
		return
	}
	amount, err := strconv.ParseFloat(query.Amount, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidAmount)
		return
	}

	result, err := h.uc.Convert(r.Context(), query.Crypto, query.Fiat, amount)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConvertResponse(result))
}

// GetCurrencies handles GET /api/currencies
func (h *QuoteHandler) GetCurrencies(w http.ResponseWriter, _ *http.Request) {
	resp := response.CurrenciesResponse{
		Currencies: make([]string, 0, len(domain.SupportedCurrencies)),
		Tokens:     make([]response.TokenResponse, 0, len(domain.Tokens)),
	}
	for _, c := range domain.SupportedCurrencies {
		resp.Currencies = append(resp.Currencies, string(c))
	}
	for _, symbol := range domain.Tokens {
		asset, _ := domain.AssetForToken(symbol)
		resp.Tokens = append(resp.Tokens, response.TokenResponse{Symbol: string(symbol), Asset: string(asset)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func toQuoteResponse(result usecase.QuoteResult) response.QuoteResponse {
	return response.QuoteResponse{
		Crypto: string(result.Asset),
		Fiat:   string(result.Currency),
		Rate:   result.Quote.Rate,
		Source: result.Quote.Provenance.Source(),
	}
}

func toConvertResponse(result usecase.ConversionResult) response.ConvertResponse {
	return response.ConvertResponse{
		QuoteID:       result.QuoteID,
		Crypto:        string(result.Asset),
		Fiat:          string(result.Currency),
		PayAmount:     result.PayAmount,
		ReceiveAmount: result.ReceiveAmount,
		Display:       result.Display,
		Rate:          result.Quote.Rate,
		Source:        result.Quote.Provenance.Source(),
	}
}

// statusFor maps usecase errors onto HTTP statuses and client-facing messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, msgInvalidAmount
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, msgInvalidPair
	case errors.Is(err, domain.ErrNoPriceAvailable):
		return http.StatusInternalServerError, msgNoPrice
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, msgCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, msgTimeout
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func writeDomainError(r *http.Request, w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("quote request failed",
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err)
	}
	writeError(w, status, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response.ErrorResponse{Error: msg})
}
