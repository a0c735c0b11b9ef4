package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-cashout-service/internal/delivery/http/dto/quote/request"
	"github.com/LavaJover/shvark-cashout-service/internal/delivery/http/dto/quote/response"
	"github.com/LavaJover/shvark-cashout-service/internal/usecase"
	"github.com/gorilla/websocket"
)

const (
	streamWriteWait    = 5 * time.Second
	streamMaxFrameSize = 1024
)

// ConvertStreamHandler serves /ws/convert. Every frame the form sends
// supersedes the previous one; only the latest input is answered.
type ConvertStreamHandler struct {
	uc       usecase.QuoteUsecase
	debounce time.Duration
	upgrader websocket.Upgrader
}

func NewConvertStreamHandler(uc usecase.QuoteUsecase, debounce time.Duration, allowedOrigins []string) *ConvertStreamHandler {
	return &ConvertStreamHandler{
		uc:       uc,
		debounce: debounce,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func (h *ConvertStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(streamMaxFrameSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	quoter := usecase.NewLiveQuoter(h.uc, h.debounce)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for c := range quoter.Results() {
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(toStreamResponse(c)); err != nil {
				slog.Warn("websocket write failed", "error", err)
				conn.Close()
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket closed unexpectedly", "error", err)
			}
			break
		}

		var frame request.ConvertFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "malformed frame"),
				time.Now().Add(streamWriteWait))
			break
		}
		quoter.Submit(ctx, usecase.ConversionInput{
			Crypto: frame.Crypto,
			Fiat:   frame.Fiat,
			Amount: frame.Amount,
		})
	}

	cancel()
	quoter.Close()
	<-done
}

func toStreamResponse(c usecase.LiveConversion) response.StreamResponse {
	resp := response.StreamResponse{Seq: c.Seq, Display: c.Display}
	if c.Err != nil {
		_, resp.Error = statusFor(c.Err)
		return resp
	}
	result := toConvertResponse(c.Result)
	resp.Result = &result
	return resp
}
