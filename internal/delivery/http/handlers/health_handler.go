package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-cashout-service/internal/delivery/http/dto/quote/response"
)

type FeedStatus interface {
	FeedUp() bool
}

// HealthHandler always answers 200: quotes keep flowing from the fallback
// table while the feed is down, so a down feed only marks the service degraded.
type HealthHandler struct {
	status FeedStatus
}

func NewHealthHandler(status FeedStatus) *HealthHandler {
	return &HealthHandler{status: status}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	up := h.status == nil || h.status.FeedUp()
	resp := response.HealthResponse{Status: "ok", FeedUp: up}
	if !up {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}
