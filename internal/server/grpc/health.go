package grpc

import (
	"context"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const pingTimeout = 2 * time.Second

// probe pings the database once and publishes the result for every service.
func (s *GRPCServer) probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.PingContext(pctx); err != nil {
		if ctx.Err() != nil {
			return healthpb.HealthCheckResponse_NOT_SERVING
		}
		s.logger.Warn(ctx, "database ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	return status
}

func (s *GRPCServer) watchDB(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	last := healthpb.HealthCheckResponse_SERVICE_UNKNOWN
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if st := s.probe(ctx); st != last {
				s.logger.Info(ctx, "health status changed", "status", st.String())
				last = st
			}
		}
	}
}
