package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"biovalid/internal/blob"
	"biovalid/internal/httpapi"
	"biovalid/internal/lookup"
	"biovalid/internal/metrics"
	"biovalid/internal/validator"
	"biovalid/pkg/domain"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the validation HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := domain.StdLogger{}
		cfg := engineConfig()

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		m := metrics.New(registry)

		cache, cleanup, err := newCache(cmd.Context(), cfg, logger, lookup.WithObserver(m))
		if err != nil {
			return err
		}
		defer cleanup()

		archive, err := blob.Open(cmd.Context())
		if err != nil {
			return fmt.Errorf("open report archive: %w", err)
		}

		engine := validator.New(cache, cfg, logger)
		handler := httpapi.NewHandler(engine,
			httpapi.WithArchive(archive),
			httpapi.WithMetrics(m, registry),
			httpapi.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              flagAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		logger.Info("listening", "addr", flagAddr)
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Listen address")
}
