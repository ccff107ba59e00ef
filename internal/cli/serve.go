package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"leaguestore/internal/adapters/rest"
	"leaguestore/internal/adapters/rpc"
	"leaguestore/internal/core"
	"leaguestore/internal/observability"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	HTTPAddr string
	RPCAddr  string

	// ready, when set, is called with the bound listeners before serving.
	ready func(httpAddr, rpcAddr net.Addr)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST and gRPC front ends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.HTTPAddr, "http-addr", "", "REST listen address (default from configuration)")
	cmd.Flags().StringVar(&opts.RPCAddr, "rpc-addr", "", "gRPC listen address (default from configuration)")

	return cmd
}

func serve(ctx context.Context, opts *ServeOptions) error {
	metrics := observability.NewMetrics()
	sess, err := opts.open(ctx, core.WithMetrics(metrics))
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	httpAddr, rpcAddr := sess.cfg.HTTP.Addr, sess.cfg.RPC.Addr
	if opts.HTTPAddr != "" {
		httpAddr = opts.HTTPAddr
	}
	if opts.RPCAddr != "" {
		rpcAddr = opts.RPCAddr
	}

	var lc net.ListenConfig
	httpLis, err := lc.Listen(ctx, "tcp", httpAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", httpAddr, err)
	}
	rpcLis, err := lc.Listen(ctx, "tcp", rpcAddr)
	if err != nil {
		_ = httpLis.Close()
		return fmt.Errorf("failed to listen on %s: %w", rpcAddr, err)
	}

	if _, err := sess.svc.Init(ctx); err != nil {
		sess.logger.Warnw("could not create missing entity files", "error", err)
	}

	api := rest.NewServer(sess.svc, rest.WithLogger(sess.logger), rest.WithMetrics(metrics))
	httpSrv := &http.Server{Handler: api.Handler(), ReadHeaderTimeout: 10 * time.Second}
	rpcSrv := rpc.NewServer(sess.svc, sess.logger)

	errc := make(chan error, 2)
	go func() { errc <- httpSrv.Serve(httpLis) }()
	go func() { errc <- rpcSrv.Serve(rpcLis) }()
	sess.logger.Infow("serving",
		"http", httpLis.Addr().String(),
		"rpc", rpcLis.Addr().String(),
		"driver", sess.svc.Driver(),
	)
	if opts.ready != nil {
		opts.ready(httpLis.Addr(), rpcLis.Addr())
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		sess.logger.Warnw("http shutdown", "error", err)
	}
	rpcSrv.GracefulStop()
	sess.logger.Infow("stopped")

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	return nil
}
