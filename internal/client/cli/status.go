package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/datavault/internal/client/probe"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// probeTimeout bounds each reachability check.
const probeTimeout = 3 * time.Second

func newStatusCmd(a *App) *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check that the server is reachable",
		Long: `Checks the REST API health endpoint and the gRPC health service.

With --watch the checks repeat until interrupted and every switch between
online and offline is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				interval = a.cfg.CheckInterval
			}
			if watch {
				probe.Watch(cmd.Context(), interval, probeTimeout, a.checkServer, func(m probe.Mode, err error) {
					a.printMode(m, err)
				})
				return nil
			}
			return a.printStatus(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep checking until interrupted")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "time between checks with --watch")
	return cmd
}

func (a *App) checkServer(ctx context.Context) error {
	if err := a.api.Healthz(ctx); err != nil {
		return fmt.Errorf("rest: %w", err)
	}
	if err := probe.Serving(probe.GRPC(ctx, a.cfg.GRPCAddr)); err != nil {
		return fmt.Errorf("grpc: %w", err)
	}
	return nil
}

func (a *App) printStatus(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	tw := newTable(a.out)
	restErr := a.api.Healthz(ctx)
	fmt.Fprintf(tw, "REST API\t%s\t%s\n", a.cfg.ServerURL, upDown(restErr))
	st, grpcErr := probe.GRPC(ctx, a.cfg.GRPCAddr)
	fmt.Fprintf(tw, "gRPC health\t%s\t%s\n", a.cfg.GRPCAddr, upDown(probe.Serving(st, grpcErr)))
	if err := tw.Flush(); err != nil {
		return err
	}

	if restErr != nil {
		return fmt.Errorf("server unavailable: %w", restErr)
	}
	return nil
}

func (a *App) printMode(m probe.Mode, err error) {
	stamp := a.now().Format(time.TimeOnly)
	if m == probe.ModeOnline {
		fmt.Fprintf(a.out, "%s %s\n", stamp, color.GreenString(string(m)))
		return
	}
	fmt.Fprintf(a.out, "%s %s: %v\n", stamp, color.RedString(string(m)), err)
}

func upDown(err error) string {
	if err != nil {
		return color.RedString("down")
	}
	return color.GreenString("up")
}
