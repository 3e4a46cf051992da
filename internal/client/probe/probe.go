// Package probe checks whether a DataVault server is reachable, once or
// continuously.
package probe

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Mode is the reachability of the server as last observed.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// Check reports nil when the server is usable.
type Check func(ctx context.Context) error

// GRPC asks the standard gRPC health service at addr for the overall
// serving status. opts are appended to the default insecure transport.
func GRPC(ctx context.Context, addr string, opts ...grpc.DialOption) (healthpb.HealthCheckResponse_ServingStatus, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check %s: %w", addr, err)
	}
	return resp.GetStatus(), nil
}

// Serving turns a GRPC status into a Check result.
func Serving(status healthpb.HealthCheckResponse_ServingStatus, err error) error {
	if err != nil {
		return err
	}
	if status != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("server reports %s", status)
	}
	return nil
}

// Watch runs check right away and then every interval, each attempt bounded
// by timeout. onChange is called with the first result and after that only
// when the mode flips. Watch returns when ctx is done.
func Watch(ctx context.Context, interval, timeout time.Duration, check Check, onChange func(Mode, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last Mode
	probe := func() {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		err := check(cctx)
		cancel()

		mode := ModeOnline
		if err != nil {
			mode = ModeOffline
		}
		if mode != last {
			last = mode
			onChange(mode, err)
		}
	}

	probe()
	for {
		select {
		case <-ticker.C:
			probe()
		case <-ctx.Done():
			return
		}
	}
}
