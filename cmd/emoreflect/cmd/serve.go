package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/f3rmion/emoreflect/internal/logging"
	"github.com/f3rmion/emoreflect/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local stand-in classifier service",
	Long: `Run a local classifier that answers POST /analyze with a random emotion
and a confidence between 0.70 and 0.99. Useful for trying the form offline:

  emoreflect serve --port 8000
  emoreflect --endpoint http://localhost:8000/analyze

The service also exposes GET /health and Prometheus metrics on GET /metrics.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "listen host (default from config, 0.0.0.0)")
	serveCmd.Flags().Int("port", 0, "listen port (default from config, 8000)")

	viper.BindPFlag("serve.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := logging.NewConsole(appCfg.Log.Level, viper.GetBool("verbose"))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.New(appCfg.Serve, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Stand-in classifier listening on http://%s/analyze\n", srv.Addr())

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", zap.Error(err))
		return err
	}
	return <-errCh
}
