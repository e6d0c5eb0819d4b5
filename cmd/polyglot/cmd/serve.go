package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/polyglot/internal/config"
	"github.com/MeKo-Tech/polyglot/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for language detection",
	Long: `Start an HTTP server that provides REST and WebSocket endpoints for
language detection.

The server provides the following endpoints:
  POST /detect        - Detect the language of one text
  POST /detect/batch  - Detect the languages of several texts
  GET  /ws            - WebSocket detection stream
  GET  /languages     - List languages and model availability
  GET  /health        - Health check endpoint
  GET  /metrics       - Prometheus metrics

Examples:
  polyglot serve
  polyglot serve --port 8080 --languages en,de,fr
  polyglot serve --host 0.0.0.0 --rate-limit-enabled --requests-per-minute 60`,
	SilenceUsage: true,
	RunE:         runServeCommand,
}

// configToServerConfig maps centralized configuration to server.Config.
// Explicitly set flags override config file values.
func configToServerConfig(cfg *config.Config, cmd *cobra.Command) (server.Config, int, error) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("cors-origin") {
		cfg.Server.CORSOrigin, _ = cmd.Flags().GetString("cors-origin")
	}
	if cmd.Flags().Changed("max-body-kb") {
		cfg.Server.MaxBodyKB, _ = cmd.Flags().GetInt("max-body-kb")
	}
	if cmd.Flags().Changed("max-batch-size") {
		cfg.Server.MaxBatchSize, _ = cmd.Flags().GetInt("max-batch-size")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Server.TimeoutSec, _ = cmd.Flags().GetInt("timeout")
	}
	if cmd.Flags().Changed("shutdown-timeout") {
		cfg.Server.ShutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
	}

	// Detection settings
	if cmd.Flags().Changed("languages") {
		cfg.Detector.Languages, _ = cmd.Flags().GetStringSlice("languages")
	}
	if cmd.Flags().Changed("preload") {
		cfg.Detector.Preload, _ = cmd.Flags().GetBool("preload")
	}
	if cmd.Flags().Changed("dense-max-order") {
		cfg.Detector.DenseMaxOrder, _ = cmd.Flags().GetInt("dense-max-order")
	}

	// Rate limiting
	rl := &cfg.Server.RateLimit
	if cmd.Flags().Changed("rate-limit-enabled") {
		rl.Enabled, _ = cmd.Flags().GetBool("rate-limit-enabled")
	}
	if cmd.Flags().Changed("requests-per-minute") {
		rl.RequestsPerMinute, _ = cmd.Flags().GetInt("requests-per-minute")
	}
	if cmd.Flags().Changed("requests-per-hour") {
		rl.RequestsPerHour, _ = cmd.Flags().GetInt("requests-per-hour")
	}
	if cmd.Flags().Changed("max-requests-per-day") {
		rl.MaxRequestsPerDay, _ = cmd.Flags().GetInt("max-requests-per-day")
	}
	if cmd.Flags().Changed("max-data-per-day") {
		rl.MaxDataPerDay, _ = cmd.Flags().GetInt64("max-data-per-day")
	}

	if err := cfg.Validate(); err != nil {
		return server.Config{}, 0, err
	}

	pCfg, err := cfg.ToPipelineConfig()
	if err != nil {
		return server.Config{}, 0, err
	}

	return server.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		CORSOrigin:     cfg.Server.CORSOrigin,
		MaxBodyKB:      int64(cfg.Server.MaxBodyKB),
		MaxBatchSize:   cfg.Server.MaxBatchSize,
		TimeoutSec:     cfg.Server.TimeoutSec,
		PipelineConfig: pCfg,
		RateLimit: server.RateLimitConfig{
			Enabled:           rl.Enabled,
			RequestsPerMinute: rl.RequestsPerMinute,
			RequestsPerHour:   rl.RequestsPerHour,
			MaxRequestsPerDay: rl.MaxRequestsPerDay,
			MaxDataPerDay:     rl.MaxDataPerDay,
		},
	}, cfg.Server.ShutdownTimeout, nil
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	serverConfig, shutdownTimeout, err := configToServerConfig(cfg, cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	detectServer, err := server.NewServer(serverConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	mux := http.NewServeMux()
	detectServer.SetupRoutes(mux)

	timeout := time.Duration(serverConfig.TimeoutSec) * time.Second
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}

	go func() {
		slog.Info("Starting language detection server", "host", serverConfig.Host, "port", serverConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("Context cancelled, initiating shutdown")
	}

	slog.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", shutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server shutdown completed")
	}

	if err := detectServer.Close(); err != nil {
		slog.Error("Server cleanup error", "error", err)
	}

	slog.Info("Graceful shutdown completed")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int("max-body-kb", 1024, "maximum request body size in KB")
	serveCmd.Flags().Int("max-batch-size", 100, "maximum number of texts per batch request")
	serveCmd.Flags().Int("timeout", 30, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	// Detection flags
	serveCmd.Flags().StringSliceP("languages", "l", nil,
		"languages to consider as ISO codes or names (default: all spoken languages)")
	serveCmd.Flags().Bool("preload", false, "load all models at startup")
	serveCmd.Flags().Int("dense-max-order", 0, "highest n-gram order kept in dense storage")
	// Rate limiting flags
	serveCmd.Flags().Bool("rate-limit-enabled", false, "enable rate limiting")
	serveCmd.Flags().Int("requests-per-minute", 120, "maximum requests per minute per client")
	serveCmd.Flags().Int("requests-per-hour", 3600, "maximum requests per hour per client")
	serveCmd.Flags().Int("max-requests-per-day", 0, "maximum requests per day per client (0 = unlimited)")
	serveCmd.Flags().Int64("max-data-per-day", 0, "maximum bytes processed per day per client (0 = unlimited)")
}
