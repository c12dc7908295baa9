package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/abczzz13/reqguard/clientaddr"
	"github.com/abczzz13/reqguard/config"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := serveCmd.Flags()
	f.String(config.KeyListen, config.DefaultListen, "Address to listen on (env: REQGUARD_LISTEN)")
	f.String(config.KeyHosting, clientaddr.HostingAuto.String(), "Hosting mode: auto, webhost, selfhost, gateway or forwarded (env: REQGUARD_HOSTING)")
	f.Bool(config.KeyErrorDetail, false, "Include error details in responses to remote callers (env: REQGUARD_ERROR_DETAIL)")
	f.String(config.KeyUpstream, "", "Upstream URL to proxy allowed requests to (env: REQGUARD_UPSTREAM)")
}

func runServe(cmd *cobra.Command, args []string) error {
	config.NewFlagLoader(cmd, settings).Apply(
		config.KeyListen,
		config.KeyHosting,
		config.KeyErrorDetail,
		config.KeyUpstream,
	)

	cfg, err := config.Load(settings)
	if err != nil {
		return err
	}

	handler, err := newHandler(cfg, serverDeps{
		logger:   &logger,
		registry: prom.DefaultRegisterer,
		gatherer: prom.DefaultGatherer,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           handler,
		ConnContext:       clientaddr.ConnContext,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Listen).
			Str("hosting", cfg.Hosting.String()).
			Int("ip_entries", cfg.IPList.Len()).
			Strs("cors_policies", cfg.PolicyNames()).
			Msg("reqguard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
