package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"clifton/internal/gateway"
	"clifton/internal/trace"
)

func gatewayCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Start the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdown, err := trace.Init(ctx, trace.Config{
				Endpoint: app.cfg.Trace.Endpoint,
				URLPath:  app.cfg.Trace.URLPath,
				APIKey:   app.cfg.Trace.APIKey,
			})
			if err != nil {
				return fmt.Errorf("initializing tracing: %w", err)
			}
			defer shutdown(context.Background())

			if addr == "" {
				addr = app.cfg.Gateway.Addr
			}

			srv := gateway.NewServer(app.runner, app.sessions)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				slog.Info("starting gateway", "addr", addr)
				return srv.ListenAndServe(addr)
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "override gateway listen address")
	return cmd
}
