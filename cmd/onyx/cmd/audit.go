package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/onyx-go/schema/internal/audit"
	"github.com/onyx-go/schema/internal/logging"
	"github.com/onyx-go/schema/internal/metrics"
)

func (c *command) initAuditCmd() {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check that the indexes listed under audit.indexes exist",
		Long: `Check that the indexes listed under audit.indexes in the config file exist.

Without --watch the check runs once and the command fails when an index is
missing. With --watch it runs on the audit schedule until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var expectations []audit.Expectation
			if err := c.config.UnmarshalKey("audit.indexes", &expectations); err != nil {
				return err
			}

			logger := c.newLogger(cmd)
			schema, closeDB, err := c.openSchema(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer closeDB()

			auditor, err := audit.New(schema, expectations, audit.Options{Logger: logger})
			if err != nil {
				return err
			}

			watch, err := cmd.Flags().GetBool(optionNameWatch)
			if err != nil {
				return err
			}
			if !watch {
				if err := auditor.Check(cmd.Context()); err != nil {
					return err
				}
				cmd.Printf("✅ All %d expected indexes are present\n", len(expectations))
				return nil
			}

			schedule, err := cmd.Flags().GetString(optionNameSchedule)
			if err != nil {
				return err
			}
			if schedule == "" {
				schedule = c.config.GetString("audit.schedule")
			}
			addr, err := cmd.Flags().GetString(optionNameMetrics)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = c.config.GetString("metrics.addr")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr != "" {
				registry := prometheus.NewRegistry()
				if err := metrics.Register(registry, schema, auditor); err != nil {
					return err
				}
				server := serveMetrics(addr, registry, logger)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = server.Shutdown(shutdownCtx)
				}()
			}

			if err := auditor.Start(schedule); err != nil {
				return err
			}

			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return auditor.Stop(stopCtx)
		},
	}

	cmd.Flags().Bool(optionNameWatch, false, "keep running and audit on the schedule")
	cmd.Flags().String(optionNameSchedule, "", "cron schedule, e.g. \"@every 10m\" (default from audit.schedule)")
	cmd.Flags().String(optionNameMetrics, "", "address to serve prometheus metrics on while watching")

	c.root.AddCommand(cmd)
}

func serveMetrics(addr string, registry *prometheus.Registry, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(
		registry,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Serving metrics", map[string]interface{}{"addr": addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	return server
}
