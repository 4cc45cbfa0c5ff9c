package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/metrics"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/server"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/service"
)

var (
	ServeCmd = &cobra.Command{
		Use:   ServeCmdName,
		Short: ServeCmdShort,
		Long:  ServeCmdLong,
		RunE:  serveCmdFunc(),
	}
)

func init() {
	ServeCmd.Flags().String("address", "", "listen address, e.g. :8080")
	ServeCmd.Flags().Bool("metrics", true, "expose Prometheus metrics on /metrics")
	viper.BindPFlag("server.address", ServeCmd.Flags().Lookup("address"))
	viper.BindPFlag("metrics.enabled", ServeCmd.Flags().Lookup("metrics"))
}

func serveCmdFunc() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		defer log.Sync()

		app, err := service.Load(cmd.Context(), cfg, log)
		if err != nil {
			log.Error("failed to load model artifacts", map[string]interface{}{"error": err.Error()})
			return err
		}
		defer app.Close()

		if cfg.Metrics.Enabled {
			app.Metrics = metrics.New()
		}

		serve := server.NewHTTPServer(cfg.Server, app, cfg.Metrics.Enabled)

		signalCh := make(chan os.Signal, 1)
		errCh := make(chan error, 1)

		go func() {
			log.Info("starting server", map[string]interface{}{"address": cfg.Server.Address})
			if err := serve.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(signalCh)

		select {
		case sig := <-signalCh:
			log.Info("shutting down the server", map[string]interface{}{"signal": sig.String()})
		case err := <-errCh:
			log.Error("server stopped", map[string]interface{}{"error": err.Error()})
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return serve.Shutdown(ctx)
	}
}
