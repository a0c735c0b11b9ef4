package grpcapi

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	QuoteServiceName = "cashout.QuoteService"
	// PriceFeedServiceName reports the upstream feed. Quotes keep being served
	// from the fallback table while it is NOT_SERVING.
	PriceFeedServiceName = "cashout.PriceFeed"
)

type HealthServer struct {
	srv *health.Server
}

func NewHealthServer() *HealthServer {
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	srv.SetServingStatus(QuoteServiceName, healthpb.HealthCheckResponse_SERVING)
	srv.SetServingStatus(PriceFeedServiceName, healthpb.HealthCheckResponse_UNKNOWN)
	return &HealthServer{srv: srv}
}

func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.srv)
}

func (h *HealthServer) SetFeedUp(up bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if up {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.srv.SetServingStatus(PriceFeedServiceName, status)
}

// Shutdown marks every service NOT_SERVING ahead of GracefulStop.
func (h *HealthServer) Shutdown() {
	h.srv.Shutdown()
}
