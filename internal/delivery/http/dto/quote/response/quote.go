package response

type QuoteResponse struct {
	Crypto string  `json:"crypto"`
	Fiat   string  `json:"fiat"`
	Rate   float64 `json:"rate"`
	Source string  `json:"source"`
}

type ConvertResponse struct {
	QuoteID       string  `json:"quoteId"`
	Crypto        string  `json:"crypto"`
	Fiat          string  `json:"fiat"`
	PayAmount     float64 `json:"payAmount"`
	ReceiveAmount float64 `json:"receiveAmount"`
	Display       string  `json:"display"`
	Rate          float64 `json:"rate"`
	Source        string  `json:"source"`
}

type TokenResponse struct {
	Symbol string `json:"symbol"`
	Asset  string `json:"asset"`
}

type CurrenciesResponse struct {
	Currencies []string        `json:"currencies"`
	Tokens     []TokenResponse `json:"tokens"`
}

type HealthResponse struct {
	Status string `json:"status"`
	FeedUp bool   `json:"feedUp"`
}

// StreamResponse answers one /ws/convert frame. Display is "0.00" and Error
// is set when the conversion failed.
type StreamResponse struct {
	Seq     uint64           `json:"seq"`
	Display string           `json:"display"`
	Result  *ConvertResponse `json:"result,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
