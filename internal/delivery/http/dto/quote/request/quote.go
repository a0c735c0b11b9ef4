package request

// QuoteQuery is the query string of GET /api/crypto-price.
type QuoteQuery struct {
	Crypto string `validate:"required,max=32"`
	Fiat   string `validate:"required,alpha,len=3"`
}

// ConvertQuery is the query string of GET /api/convert. Amount accepts any
// strconv.ParseFloat syntax (".5", "1e3"); positivity is checked on the parsed value.
type ConvertQuery struct {
	Crypto string `validate:"required,max=32"`
	Fiat   string `validate:"required,alpha,len=3"`
	Amount string `validate:"required"`
}

// ConvertFrame is one message sent by the form over /ws/convert.
type ConvertFrame struct {
	Crypto string  `json:"crypto"`
	Fiat   string  `json:"fiat"`
	Amount float64 `json:"amount"`
}
