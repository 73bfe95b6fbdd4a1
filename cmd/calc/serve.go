package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stock-calculator/internal/pricing"
	"stock-calculator/internal/pricing/pricingobs"
	"stock-calculator/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP quote service",
		Long:  `Serves POST /v1/quote and GET /healthz until interrupted with Ctrl+C or SIGTERM.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, addr, pricingobs.Wrap(pricing.NewSolver()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
