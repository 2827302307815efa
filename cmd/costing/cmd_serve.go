package main

import (
	"os"
	"os/signal"
	"syscall"

	costingrpc "costing/rpc"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer costing requests over UDP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.ListenAddr
			}
			srv, err := costingrpc.Listen(addr, costingrpc.NewHandler(a.logger), a.logger)
			if err != nil {
				return err
			}
			if a.cfg.Server.ReadBuffer > 0 {
				srv.SetReadBuffer(a.cfg.Server.ReadBuffer)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			a.logger.Info("costing service listening", zap.String("addr", srv.Addr().String()))
			return srv.Serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "listen", "", "UDP address to listen on (default from config)")
	return cmd
}
