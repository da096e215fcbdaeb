package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-frontier/pkg/form"
	"github.com/goliatone/go-frontier/pkg/metrics"
	"github.com/goliatone/go-frontier/pkg/renderers/semantic"
	"github.com/goliatone/go-frontier/pkg/server"
)

const shutdownTimeout = 5 * time.Second

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form over HTTP",
		Long:  "Serves the rendered form on / and accepts posts to it. Prometheus metrics are exposed on /metrics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler, err := a.handler(cmd.Context())
			if err != nil {
				return err
			}
			return a.listen(cmd.Context(), handler)
		},
	}
	cmd.Flags().String("listen", ":8080", "address to listen on")
	_ = a.v.BindPFlag(cfgKeyListen, cmd.Flags().Lookup("listen"))
	return cmd
}

func (a *app) handler(ctx context.Context) (http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.New(metrics.WithRegisterer(registry))
	if err != nil {
		return nil, err
	}

	kit, err := semantic.New(semantic.WithAction(http.MethodPost, "/"))
	if err != nil {
		return nil, err
	}
	f, err := a.buildForm(ctx, form.WithKit(kit), form.WithMetrics(collector))
	if err != nil {
		return nil, err
	}
	return server.NewHandler(f,
		server.WithLogger(a.logger.Named("http")),
		server.WithMetrics(registry),
	)
}

func (a *app) listen(ctx context.Context, handler http.Handler) error {
	srv := &http.Server{
		Addr:              a.cfg.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("serving form", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
