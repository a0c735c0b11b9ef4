package grpcapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func check(t *testing.T, h *HealthServer, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := h.srv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthServer(t *testing.T) {
	h := NewHealthServer()
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, h, QuoteServiceName))
	assert.Equal(t, healthpb.HealthCheckResponse_UNKNOWN, check(t, h, PriceFeedServiceName))

	h.SetFeedUp(false)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, h, PriceFeedServiceName))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, h, QuoteServiceName))

	h.SetFeedUp(true)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, h, PriceFeedServiceName))

	h.Shutdown()
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, h, QuoteServiceName))
}
